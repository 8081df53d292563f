package builder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"dario.cat/mergo"
	"github.com/expr-lang/expr"
	"github.com/pelletier/go-toml/v2"
)

// ConfigFilename is looked up in the project root when no config path is given.
const ConfigFilename = "NMakeGen.toml"

var (
	ErrInvalidDirName = errors.New("directory name must be a single path segment")
)

type Config struct {
	Layout   LayoutSection   `toml:"layout"`
	Compiler CompilerSection `toml:"compiler"`
	Scan     ScanSection     `toml:"scan"`
}

// LayoutSection defines the [layout] section
type LayoutSection struct {
	SrcDir string `toml:"src-dir"`
	ObjDir string `toml:"obj-dir"`
	BinDir string `toml:"bin-dir"`
	Target string `toml:"target"`
	Output string `toml:"output"`
}

// CompilerSection defines the [compiler(.*)] section
type CompilerSection struct {
	Name   string   `toml:"name"`
	Flags  []string `toml:"flags"`
	ObjExt string   `toml:"obj-ext"`
}

// ScanSection defines the [scan(.*)] section
type ScanSection struct {
	Ext       string   `toml:"ext"`
	Exclude   []string `toml:"exclude"`
	Gitignore bool     `toml:"gitignore"`
}

// DefaultConfig returns the layout every project gets without a config file.
func DefaultConfig(env ConfigEnv) Config {
	return Config{
		Layout: LayoutSection{
			SrcDir: "src",
			ObjDir: "obj",
			BinDir: "bin",
			Target: env.Project + ".exe",
			Output: "makefile.nmake",
		},
		Compiler: CompilerSection{
			Name:   "cl.exe",
			Flags:  []string{"/EHsc", "/W4", "/Iinclude"},
			ObjExt: ".obj",
		},
		Scan: ScanSection{
			Ext: ".cpp",
		},
	}
}

// Mapper returns the path translation for this layout.
func (c *Config) Mapper() PathMapper {
	return PathMapper{SrcDir: c.Layout.SrcDir, ObjDir: c.Layout.ObjDir, ObjExt: c.Compiler.ObjExt}
}

// Override merges every non-zero field of o over c and validates the result.
func (c *Config) Override(o Config) error {
	if err := mergo.Merge(c, o, mergo.WithOverride); err != nil {
		return fmt.Errorf("failed to apply overrides: %w", err)
	}
	return c.normalize()
}

func normalizeExt(ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}

func checkDirName(key, name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("layout.%s = %q: %w", key, name, ErrInvalidDirName)
	}
	return nil
}

// normalize fixes up extensions and validates the layout
func (c *Config) normalize() error {
	c.Scan.Ext = normalizeExt(c.Scan.Ext)
	c.Compiler.ObjExt = normalizeExt(c.Compiler.ObjExt)

	for _, kv := range [][2]string{
		{"src-dir", c.Layout.SrcDir},
		{"obj-dir", c.Layout.ObjDir},
		{"bin-dir", c.Layout.BinDir},
		{"output", c.Layout.Output},
	} {
		if err := checkDirName(kv[0], kv[1]); err != nil {
			return err
		}
	}
	if c.Layout.SrcDir == c.Layout.ObjDir {
		return fmt.Errorf("layout.src-dir and layout.obj-dir are both %q", c.Layout.SrcDir)
	}
	if c.Layout.Target == "" {
		return errors.New("layout.target must not be empty")
	}
	if c.Scan.Ext == "" {
		return errors.New("scan.ext must not be empty")
	}
	return nil
}

func mustMarshal(v any) string {
	b, err := toml.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// unmarshalConditionalSection is a helper to parse, evaluate and merge a section
// whose sub-tables are keyed by boolean expressions
func unmarshalConditionalSection[T any](rawCfg map[string]any, name string, dst *T, env ConfigEnv) error {
	sectionData, ok := rawCfg[name]
	if !ok {
		return nil
	}

	sectionMap, ok := sectionData.(map[string]any)
	if !ok {
		return fmt.Errorf("invalid [%s] section format: expected a table", name)
	}

	baseFields := make(map[string]any)
	conditionalFields := make(map[string]map[string]any)

	for key, val := range sectionMap {
		if subMap, ok := val.(map[string]any); ok {
			if _, err := expr.Compile(key, expr.Env(env), expr.AsBool()); err == nil {
				conditionalFields[key] = subMap
				continue
			}
		}
		baseFields[key] = val
	}

	if len(baseFields) > 0 {
		if err := toml.Unmarshal([]byte(mustMarshal(baseFields)), dst); err != nil {
			return fmt.Errorf("failed to parse base [%s] section: %w", name, err)
		}
	}

	// sorted, so overlapping tables merge the same way on every run
	for _, expression := range slices.Sorted(maps.Keys(conditionalFields)) {
		condMap := conditionalFields[expression]
		program, err := expr.Compile(expression, expr.Env(env), expr.AsBool())
		if err != nil {
			return fmt.Errorf("failed to compile expression for [%s.%q]: %w", name, expression, err)
		}

		result, err := expr.Run(program, env)
		if err != nil {
			return fmt.Errorf("failed to run expression for [%s.%q]: %w", name, expression, err)
		}

		if matched, ok := result.(bool); !ok || !matched {
			continue
		}

		var condSection T
		if err := toml.Unmarshal([]byte(mustMarshal(condMap)), &condSection); err != nil {
			return fmt.Errorf("failed to parse conditional section [%s.%q]: %w", name, expression, err)
		}
		if err := mergo.Merge(dst, condSection, mergo.WithOverride, mergo.WithAppendSlice); err != nil {
			return fmt.Errorf("failed to merge conditional section [%s.%q]: %w", name, expression, err)
		}
	}

	return nil
}

var exprRegex = regexp.MustCompile(`\{\{(.+?)\}\}`)

// evaluateString finds and evaluates all {{...}} expressions in a string
func evaluateString(s string, env ConfigEnv) (string, error) {
	matches := exprRegex.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, nil
	}

	var builder strings.Builder
	lastIndex := 0

	for _, m := range matches {
		builder.WriteString(s[lastIndex:m[0]])

		expression := strings.TrimSpace(s[m[2]:m[3]])
		program, err := expr.Compile(expression, expr.Env(env))
		if err != nil {
			return "", fmt.Errorf("failed to compile expression %q: %w", expression, err)
		}

		result, err := expr.Run(program, env)
		if err != nil {
			return "", fmt.Errorf("failed to run expression %q: %w", expression, err)
		}

		fmt.Fprintf(&builder, "%v", result)
		lastIndex = m[1]
	}

	builder.WriteString(s[lastIndex:])

	return builder.String(), nil
}

// processExpressions recursively walks the parsed TOML data and evaluates expressions in strings
func processExpressions(data any, env ConfigEnv) (any, error) {
	switch v := data.(type) {
	case map[string]any:
		for key, val := range v {
			processedVal, err := processExpressions(val, env)
			if err != nil {
				return nil, err
			}
			v[key] = processedVal
		}
		return v, nil
	case []any:
		for i, item := range v {
			processedItem, err := processExpressions(item, env)
			if err != nil {
				return nil, err
			}
			v[i] = processedItem
		}
		return v, nil
	case string:
		return evaluateString(v, env)
	default:
		return data, nil
	}
}

// ParseConfig reads a config file over DefaultConfig
func ParseConfig(rdr io.Reader, env ConfigEnv) (*Config, error) {
	var rawConfig map[string]any
	dec := toml.NewDecoder(rdr)
	if err := dec.Decode(&rawConfig); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			return nil, errors.New(derr.String())
		}
		return nil, err
	}
	if rawConfig == nil {
		rawConfig = make(map[string]any)
	}

	processedConfig, err := processExpressions(rawConfig, env)
	if err != nil {
		return nil, fmt.Errorf("error processing expressions in config: %w", err)
	}
	rawConfig = processedConfig.(map[string]any)

	// defaults go in first so that explicit values, empty arrays included, replace them
	cfg := DefaultConfig(env)
	if err := unmarshalConditionalSection(rawConfig, "layout", &cfg.Layout, env); err != nil {
		return nil, err
	}
	if err := unmarshalConditionalSection(rawConfig, "compiler", &cfg.Compiler, env); err != nil {
		return nil, err
	}
	if err := unmarshalConditionalSection(rawConfig, "scan", &cfg.Scan, env); err != nil {
		return nil, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseConfigFromFile parses and validates a config file from a filepath
func ParseConfigFromFile(path string, env ConfigEnv) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := ParseConfig(bufio.NewReader(f), env)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadConfig loads the config for the project in basedir. An empty path means
// basedir/NMakeGen.toml, which may be absent.
func LoadConfig(basedir, path string, env ConfigEnv) (*Config, error) {
	if path != "" {
		return ParseConfigFromFile(path, env)
	}

	path = filepath.Join(basedir, ConfigFilename)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig(env)
		if err := cfg.normalize(); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return ParseConfigFromFile(path, env)
}

type ConfigEnv struct {
	Project    string            `expr:"project"`
	TargetOS   string            `expr:"target_os"`
	TargetArch string            `expr:"target_arch"`
	Environ    map[string]string `expr:"environ"`
}

// NewConfigEnv builds the expression environment for the project in basedir
func NewConfigEnv(basedir string) ConfigEnv {
	environ := make(map[string]string)
	for _, e := range os.Environ() {
		if i := strings.Index(e, "="); i >= 0 {
			environ[e[:i]] = e[i+1:]
		}
	}

	return ConfigEnv{
		Project:    filepath.Base(basedir),
		TargetOS:   runtime.GOOS,
		TargetArch: runtime.GOARCH,
		Environ:    environ,
	}
}
