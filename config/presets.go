package config

import (
	"time"

	"github.com/viant/deobfjs/dctx"
)

// Presets are the named flag bundles §6 calls out for common scenarios.
var Presets = map[string]dctx.Flags{
	"malware-analysis": {
		Unpack:            true,
		EmitMalwareReport: true,
		InvokeRenamer:     false,
		MaxIterations:     200,
		Timeout:           600 * time.Second,
	},
	"minified-code": {
		InvokeRenamer: true,
		MaxIterations: 100,
		Timeout:       300 * time.Second,
	},
	"webpack-bundle": {
		Unpack:             true,
		DeobfuscateModules: true,
		MaxIterations:      100,
		Timeout:            300 * time.Second,
	},
	"fast": {
		MaxIterations: 20,
		Timeout:       30 * time.Second,
	},
}
