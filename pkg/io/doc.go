// Package io loads facility configurations and round-trips compiled plans.
//
// # Configuration
//
// Configurations are TOML (the native format) or JSON, selected by file
// extension. A minimal TOML configuration:
//
//	[structure]
//	length = 96.0
//	width = 12.0
//	column_spacing = 6.0
//	eaves_height = 5.0
//	ridge_height = 5.9
//
//	[solar]
//	panel_width = 1.1
//	panel_length = 1.8
//	rows_per_slope = 3
//	panels_per_row = 40
//
//	[parking.car]
//	width = 2.4
//	length = 5.0
//	angle_degrees = 45.0
//	aisle_offset = 3.5
//	fill_probability = 0.6
//
//	[parking.coach]
//	width = 3.5
//	length = 14.0
//	angle_degrees = 60.0
//	aisle_offset = 6.0
//	fill_probability = 0.4
//
// Loading performs no validation beyond decoding; the compiler validates
// the whole configuration fail-fast before placing anything.
//
// # Plans
//
// Compiled plans are exported as indented JSON and can be re-imported
// identically: export a plan, import it, and every instance, count, and
// geometry field survives. This is the interchange contract with external
// renderers, which must treat instance kinds as opaque tags and must not
// depend on instance order for correctness.
package io
