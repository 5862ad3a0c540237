package module

import (
	"os"
	"sort"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/hemlock-lang/hemlock/internal/value"
)

// manifestSuffix names the side-car file written next to a compiled
// module: <module>.hml.manifest.json.
const manifestSuffix = ".manifest.json"

// writeManifest persists the export name list for abs, keyed by the
// source file's mtime, so tooling (the C transpiler's mangling pass,
// an LSP front end) can discover a module's exported names without
// re-running it. It is deliberately NOT a compiled-output cache: a
// tree-walking module may have top-level side effects (spec §4.4
// "Each module's top-level statements run exactly once"), so Compile
// always re-executes a module that isn't already LOADED in this
// process; the manifest only saves a second full parse+walk by a
// *separate* tool process inspecting the same module.
func writeManifest(abs string, exportNames []string) error {
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	sort.Strings(exportNames)

	doc := "{}"
	doc, err = sjson.Set(doc, "mtime", info.ModTime().Unix())
	if err != nil {
		return err
	}
	doc, err = sjson.Set(doc, "exports", exportNames)
	if err != nil {
		return err
	}
	return os.WriteFile(abs+manifestSuffix, []byte(doc), 0o644)
}

// readManifest returns the cached export names for abs if a side-car
// exists and its recorded mtime still matches the source file's.
func readManifest(abs string) ([]string, bool) {
	info, err := os.Stat(abs)
	if err != nil {
		return nil, false
	}
	data, err := os.ReadFile(abs + manifestSuffix)
	if err != nil {
		return nil, false
	}
	result := gjson.ParseBytes(data)
	if result.Get("mtime").Int() != info.ModTime().Unix() {
		return nil, false
	}
	names := result.Get("exports")
	if !names.Exists() || !names.IsArray() {
		return nil, false
	}
	out := make([]string, 0, len(names.Array()))
	for _, n := range names.Array() {
		out = append(out, n.String())
	}
	return out, true
}

// ManifestExportNames returns the export names recorded for the
// module at abs without executing it, reading the on-disk manifest
// written the last time Compile ran it in this or a prior process.
// Returns (nil, false) if no fresh manifest exists.
func ManifestExportNames(abs string) ([]string, bool) {
	return readManifest(abs)
}

func exportNameList(exports map[string]value.Value) []string {
	names := make([]string, 0, len(exports))
	for name := range exports {
		names = append(names, name)
	}
	return names
}
