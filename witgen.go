package witgen

import (
	"github.com/wippyai/witgen/bindgen"
	"github.com/wippyai/witgen/internal/config"
	"github.com/wippyai/witgen/internal/driver"
	"github.com/wippyai/witgen/ir"
)

// GenerateFile loads a WIT file, directory or resolve JSON document and
// generates bindings for the named world. An empty world picks the only
// world of the root package.
func GenerateFile(path, world string, opts bindgen.Options) (*bindgen.Result, error) {
	res, err := driver.LoadIR(&config.Target{WIT: path})
	if err != nil {
		return nil, err
	}
	return GenerateResolve(res, world, opts)
}

// GenerateSource parses inline WIT text and generates bindings for the
// named world.
func GenerateSource(src, world string, opts bindgen.Options) (*bindgen.Result, error) {
	res, err := ir.ParseWIT(src)
	if err != nil {
		return nil, err
	}
	return GenerateResolve(res, world, opts)
}

// GenerateResolve selects the named world of res and generates its
// bindings.
func GenerateResolve(res *ir.Resolve, world string, opts bindgen.Options) (*bindgen.Result, error) {
	id, err := res.SelectWorld(world)
	if err != nil {
		return nil, err
	}
	return bindgen.Generate(res, id, opts)
}
