package config

import (
	"context"
	"fmt"
	"time"

	"github.com/ZebulonRouseFrantzich/gotool/internal/platform"
	lua "github.com/yuin/gopher-lua"
)

// Lua schema field names and globals.
const (
	luaGlobal           = "gotool"
	luaFieldURLTemplate = "url_template"
	luaFieldProbe       = "probe"
	luaFieldCommands    = "commands"
	luaFieldBinDir      = "bin_dir"
	luaFieldVendorDir   = "vendor_dir"
	luaFieldTar         = "tar"
	luaFieldLink        = "link"
	luaFieldNix         = "nix"
	luaFieldWin         = "win"
)

// DefaultParseTimeout applies when the context passed to ParseString has no deadline.
const DefaultParseTimeout = 5 * time.Second

// Parser turns a Lua config into a Config.
type Parser struct {
	detector platform.Detector
	logger   Logger
}

// NewParser creates a parser. A nil detector leaves the platform table undefined.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector, logger: noopLogger{}}
}

// WithLogger sets the logger used for parse diagnostics.
func (p *Parser) WithLogger(logger Logger) *Parser {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// ParseString executes luaCode and returns the defaulted, validated Config.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	if len(luaCode) > MaxConfigSize {
		return nil, &ParseError{
			Message: "config too large",
			Detail:  fmt.Sprintf("%d bytes, maximum is %d", len(luaCode), MaxConfigSize),
		}
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultParseTimeout)
		defer cancel()
	}

	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("parse config: %w", ctx.Err())
		}
		return nil, &ParseError{Message: "Lua error", Detail: err.Error()}
	}

	cfg, err := extractConfig(L)
	if err != nil {
		return nil, err
	}

	out := cfg.WithDefaults()
	if err := out.Validate(); err != nil {
		return nil, &ParseError{Message: "config validation failed", Detail: err.Error(), Err: err}
	}

	p.logger.Debug("parsed lua config", "commands", len(out.Commands), "url_template", out.URLTemplate)
	return &out, nil
}

// ParseError represents a config parsing error with a friendly message.
type ParseError struct {
	Message string // user-facing summary
	Detail  string // underlying parser output
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

func (e *ParseError) Unwrap() error { return e.Err }

// extractConfig reads the global gotool table. Unset fields stay zero.
func extractConfig(L *lua.LState) (Config, error) {
	global := L.GetGlobal(luaGlobal)
	table, ok := global.(*lua.LTable)
	if !ok {
		return Config{}, &ParseError{
			Message: "missing or invalid '" + luaGlobal + "' table",
			Detail:  fmt.Sprintf("expected table, got %s", global.Type()),
		}
	}

	var cfg Config
	var err error

	if cfg.URLTemplate, err = optionalString(table, luaFieldURLTemplate); err != nil {
		return Config{}, err
	}
	if cfg.BinDir, err = optionalString(table, luaFieldBinDir); err != nil {
		return Config{}, err
	}
	if cfg.VendorDir, err = optionalString(table, luaFieldVendorDir); err != nil {
		return Config{}, err
	}
	if cfg.TarCommand, err = optionalString(table, luaFieldTar); err != nil {
		return Config{}, err
	}

	switch probe := table.RawGetString(luaFieldProbe).(type) {
	case *lua.LNilType:
	case *lua.LTable:
		if cfg.ProbeCommand, err = stringArray(probe, luaFieldProbe); err != nil {
			return Config{}, err
		}
	default:
		return Config{}, fieldTypeError(luaFieldProbe, "array of strings", probe)
	}

	switch commands := table.RawGetString(luaFieldCommands).(type) {
	case *lua.LNilType:
	case *lua.LTable:
		if cfg.Commands, err = extractCommands(commands); err != nil {
			return Config{}, err
		}
	default:
		return Config{}, fieldTypeError(luaFieldCommands, "table", commands)
	}

	return cfg, nil
}

func extractCommands(table *lua.LTable) (map[string]Command, error) {
	commands := make(map[string]Command)
	var firstErr error

	table.ForEach(func(key, value lua.LValue) {
		if firstErr != nil {
			return
		}
		name, ok := key.(lua.LString)
		if !ok {
			firstErr = fieldTypeError(luaFieldCommands, "string keys", key)
			return
		}
		entry, ok := value.(*lua.LTable)
		if !ok {
			// Platform conditionals such as `platform.is_linux and {...} or nil`
			// leave nothing behind, so only non-nil scalars are rejected.
			if value != lua.LNil {
				firstErr = fieldTypeError(luaFieldCommands+"."+string(name), "table", value)
			}
			return
		}

		field := luaFieldCommands + "." + string(name)
		var cmd Command
		var err error
		if cmd.Link, err = optionalString(entry, luaFieldLink); err != nil {
			firstErr = prefixField(err, field)
			return
		}
		if cmd.Posix, err = optionalString(entry, luaFieldNix); err != nil {
			firstErr = prefixField(err, field)
			return
		}
		if cmd.Windows, err = optionalString(entry, luaFieldWin); err != nil {
			firstErr = prefixField(err, field)
			return
		}
		if cmd.Link == "" {
			cmd.Link = string(name)
		}
		commands[string(name)] = cmd
	})

	if firstErr != nil {
		return nil, firstErr
	}
	return commands, nil
}

func optionalString(table *lua.LTable, field string) (string, error) {
	switch v := table.RawGetString(field).(type) {
	case *lua.LNilType:
		return "", nil
	case lua.LString:
		return string(v), nil
	default:
		return "", fieldTypeError(field, "string", v)
	}
}

// stringArray reads the array part of table. Nil holes are skipped.
func stringArray(table *lua.LTable, field string) ([]string, error) {
	var out []string
	for i := 1; i <= table.MaxN(); i++ {
		switch v := table.RawGetInt(i).(type) {
		case *lua.LNilType:
		case lua.LString:
			out = append(out, string(v))
		default:
			return nil, fieldTypeError(fmt.Sprintf("%s[%d]", field, i), "string", v)
		}
	}
	return out, nil
}

func fieldTypeError(field, want string, got lua.LValue) error {
	return &ParseError{
		Message: "invalid field " + field,
		Detail:  fmt.Sprintf("expected %s, got %s", want, got.Type()),
	}
}

func prefixField(err error, prefix string) error {
	if pe, ok := err.(*ParseError); ok {
		return &ParseError{Message: pe.Message + " in " + prefix, Detail: pe.Detail}
	}
	return err
}
