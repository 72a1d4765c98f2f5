// Package linkscore turns one step's partial-change and value-delta
// records into a signed, dimensionless score per edge (§4.2): the
// instantaneous formula for ordinary dependency edges, and the
// flow-to-stock formula (using the stock's second-order change as
// denominator) for implicit flow-to-stock edges.
package linkscore
