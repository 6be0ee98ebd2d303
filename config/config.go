// Package config discovers and loads run configuration (§6/§7): an
// ancestor-directory JSON config file search grounded on
// inspector/repository/detector.go's findProjectRoot, plus a small set of
// named presets tuning dctx.Flags for common scenarios.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/viant/deobfjs/dctx"
)

// FileName is the config file findProjectRoot-style discovery looks for.
const FileName = ".deobfjs.json"

// File is the on-disk JSON shape. A nil field means "use the default /
// preset value": every option is a pointer, so an absent key is told
// apart from an explicit false or 0.
type File struct {
	Preset             string `json:"preset,omitempty"`
	Verbose            *bool  `json:"verbose,omitempty"`
	Unpack             *bool  `json:"unpack,omitempty"`
	DeobfuscateModules *bool  `json:"deobfuscateModules,omitempty"`
	InvokeRenamer      *bool  `json:"invokeRenamer,omitempty"`
	EmitMalwareReport  *bool  `json:"emitMalwareReport,omitempty"`
	MaxIterations      *int   `json:"maxIterations,omitempty"`
	TimeoutSeconds     *int   `json:"timeoutSeconds,omitempty"`
}

// Find searches upward from startDir (an ancestor-directory walk identical
// in shape to findProjectRoot) for FileName, returning "" if none of the
// ancestors up to the filesystem root carry one.
func Find(startDir string) string {
	dir := startDir
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Load reads and parses path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// ApplyTo merges f onto flags, starting from a named preset if one is set,
// then letting explicit fields in f override the preset.
func (f *File) ApplyTo(flags dctx.Flags) dctx.Flags {
	if f.Preset != "" {
		if preset, ok := Presets[f.Preset]; ok {
			flags = preset
		}
	}
	if f.Verbose != nil {
		flags.Verbose = *f.Verbose
	}
	if f.Unpack != nil {
		flags.Unpack = *f.Unpack
	}
	if f.DeobfuscateModules != nil {
		flags.DeobfuscateModules = *f.DeobfuscateModules
	}
	if f.InvokeRenamer != nil {
		flags.InvokeRenamer = *f.InvokeRenamer
	}
	if f.EmitMalwareReport != nil {
		flags.EmitMalwareReport = *f.EmitMalwareReport
	}
	if f.MaxIterations != nil {
		flags.MaxIterations = *f.MaxIterations
	}
	if f.TimeoutSeconds != nil {
		flags.Timeout = time.Duration(*f.TimeoutSeconds) * time.Second
	}
	return flags
}

// Resolve is the convenience entry point engine.Process callers typically
// use: discover a config file at/above startDir, load it if present, and
// apply it over dctx.DefaultFlags(). Absence of a config file is not an
// error — it just means the defaults stand.
func Resolve(startDir string) (dctx.Flags, error) {
	flags := dctx.DefaultFlags()
	path := Find(startDir)
	if path == "" {
		return flags, nil
	}
	f, err := Load(path)
	if err != nil {
		return flags, err
	}
	return f.ApplyTo(flags), nil
}
