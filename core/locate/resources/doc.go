/*
Package resources locates the files a hint font generator needs: virtual
fonts, TFM metrics, Type 1 and OpenType glyph files, encoding vectors and
font map files.

As searching a TeX installation may be a time-consuming task, lookup works
in an async/await fashion by returning a promise. Functions named

   Resolve…(…)

will return a resource-specific promise type, which the client will call later
to receive the location of the resource. The call to the promise-function will
then block until the search has completed.

Files are searched in the following order:

   1. the name as given, if it is a path to an existing file
   2. the directory trees listed in configuration key 'texmf'
   3. the kpathsea tool kpsewhich, if configuration key 'kpsewhich' is set
   4. the system font directories (glyph files only)

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package resources

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'htfgen.resources'.
func tracer() tracing.Trace {
	return tracing.Select("htfgen.resources")
}
