// Package fieldschema defines the ordered field schema edited by the builder:
// the closed set of field type tags, the FieldDescriptor entries, the option
// list normalisation, and the pretty-printed JSON encoding that hosts persist
// as an opaque string.
//
// The wire contract is an array of objects:
//
//	[
//	  {
//	    "name": "Color",
//	    "type": "SELECT",
//	    "options": ["Red", "Green", "Blue"]
//	  }
//	]
//
// `options` is present only for the choice-requiring types (SELECT, RADIO,
// MULTISELECT). Insertion order is meaningful and duplicate names are allowed.
package fieldschema
