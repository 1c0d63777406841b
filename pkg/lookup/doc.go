// Package lookup repopulates a dependent choice list from a remote service
// keyed on a source selector's value and an ambient parent identifier.
package lookup
