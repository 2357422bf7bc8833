package main

import (
	"fmt"
	"io"

	"github.com/ZebulonRouseFrantzich/gotool/internal/toolchain"
)

const mib = 1 << 20

// progressPrinter reports download progress on w, one line per whole MiB
// and a final line once the body is complete.
func progressPrinter(w io.Writer) toolchain.ProgressFunc {
	var lastMiB int64 = -1
	return func(written, total int64) {
		cur := written / mib
		done := total > 0 && written >= total
		if cur == lastMiB && !done {
			return
		}
		lastMiB = cur

		if total > 0 {
			_, _ = fmt.Fprintf(w, "\rDownloading... %d/%d MiB (%d%%)", cur, total/mib, written*100/total)
		} else {
			_, _ = fmt.Fprintf(w, "\rDownloading... %d MiB", cur)
		}
		if done {
			_, _ = fmt.Fprintln(w)
		}
	}
}
