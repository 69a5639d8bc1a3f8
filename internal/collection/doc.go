// Package collection implements the list-management workflow shared by every
// list screen: fetch the full set, filter and paginate it in memory, hold a
// single selection, and orchestrate create/update/delete round-trips against
// a remote source.
//
// One Controller is instantiated per entity kind (books, members). The
// original web front end duplicated this logic per screen; here it is a
// single type-parameterized component.
package collection
