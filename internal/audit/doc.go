// Package audit verifies canonical route documents after a migration and
// produces the defect report.
//
// Verification is read-only and deterministic for a given store state:
// routes and stops are visited in id order. Each route contributes an issue
// entry only when at least one problem tag applies. Per stop only the first
// failing check is reported (location before order).
//
// Problem tags:
//
//	missing_or_empty_path            path absent or empty
//	invalid_path_point               a path element is not a valid GeoPoint
//	coordinates_not_array            legacy coordinates present but not a list
//	coordinates_invalid_first_point  legacy coordinates[0] missing or not point-shaped
//	no_stops                         stops subcollection empty
//	stop_invalid_location:{stopId}   stop location missing or invalid
//	stop_invalid_order:{stopId}      stop order missing or not numeric
//	backup_missing                   no document in the backup collection
package audit
