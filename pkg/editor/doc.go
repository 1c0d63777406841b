// Package editor implements the field-schema editor: a single owning struct
// holding the schema and the control handles it renders into. Hosts build the
// controls (DOM bindings, terminal prompts, server-rendered forms, or the
// in-memory set in this package), hand them to New, and afterwards only fire
// events on them. The editor is the sole writer of the serialized store.
package editor
