// Package matrix implements the boolean matrix algebra that path plans are
// evaluated with: the or-and product, element-wise union, reflexive-transitive
// closure and the fused closure products a*·b and a·b*.
package matrix
