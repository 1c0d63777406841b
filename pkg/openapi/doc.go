// Package openapi exports a field schema as an OpenAPI 3 document describing
// the submission payload of the form it defines.
package openapi
