// Package html renders the field builder as server-side HTML using pongo2
// templates. Names and options are always escaped; only the rows fragment and
// the sanitised intro are inserted verbatim.
package html
