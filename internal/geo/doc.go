// Package geo turns heterogeneous legacy point encodings into validated
// docstore.GeoPoint values.
//
// Resolution is pluggable through the Resolver interface. Heuristic is the
// default strategy and tries, in order: latitude/longitude fields, lat/lng
// fields, a two-element [a, b] array, and finally the first element of a
// nested "coordinates" array. The first rule that matches decides the result.
//
// Two-element arrays are inherently ambiguous when both components fit within
// ±90: Heuristic reads them as [lat, lng]. Data in [lng, lat] order with a
// longitude inside ±90 is resolved incorrectly and cannot be detected here.
// Supply a different Resolver when the source order is known.
package geo
