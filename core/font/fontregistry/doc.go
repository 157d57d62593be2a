/*
Package fontregistry manages a registry for loaded glyph sources.

Loading a glyph file and applying an encoding is costly, and a family of
TeX fonts usually shares a handful of glyph files. The registry caches
glyph sources by TeX font name and may be used concurrently.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fontregistry

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'htfgen.fonts'
func tracer() tracing.Trace {
	return tracing.Select("htfgen.fonts")
}
