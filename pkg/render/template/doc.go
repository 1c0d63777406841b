// Package template defines the seam renderers use to execute templates so the
// HTML renderer can be tested or re-themed without a concrete engine.
package template
