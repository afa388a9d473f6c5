package layout

import "github.com/hallgen/hallgen/pkg/errors"

// Config is the immutable input for a facility compilation. It is passed
// by value into each generator; no generator mutates it or retains it.
type Config struct {
	Structure StructureConfig `json:"structure" toml:"structure"`
	Solar     SolarConfig     `json:"solar" toml:"solar"`
	Parking   ParkingConfig   `json:"parking" toml:"parking"`
}

// StructureConfig describes the dual-pitch portal-frame structure.
type StructureConfig struct {
	Length        float64 `json:"length" toml:"length"`                 // extent along Z
	Width         float64 `json:"width" toml:"width"`                   // extent along X (full span)
	ColumnSpacing float64 `json:"column_spacing" toml:"column_spacing"` // distance between column ticks along Z
	EavesHeight   float64 `json:"eaves_height" toml:"eaves_height"`
	RidgeHeight   float64 `json:"ridge_height" toml:"ridge_height"`
}

// SolarConfig describes the rooftop panel grid tiled onto each slope.
type SolarConfig struct {
	PanelWidth     float64 `json:"panel_width" toml:"panel_width"`   // panel extent along Z
	PanelLength    float64 `json:"panel_length" toml:"panel_length"` // panel extent along the slope
	RowsPerSlope   int     `json:"rows_per_slope" toml:"rows_per_slope"`
	PanelsPerRow   int     `json:"panels_per_row" toml:"panels_per_row"`
	GapAlongSlope  float64 `json:"gap_along_slope" toml:"gap_along_slope"`
	GapAlongLength float64 `json:"gap_along_length" toml:"gap_along_length"`
}

// ParkingConfig holds the stall geometry for the two vehicle classes.
type ParkingConfig struct {
	Car   ClassConfig `json:"car" toml:"car"`
	Coach ClassConfig `json:"coach" toml:"coach"`
}

// ClassConfig describes angled parking geometry for one vehicle class.
type ClassConfig struct {
	Width           float64 `json:"width" toml:"width"`   // stall width, measured perpendicular to the divider
	Length          float64 `json:"length" toml:"length"` // stall depth / divider segment length
	AngleDegrees    float64 `json:"angle_degrees" toml:"angle_degrees"`
	AisleOffset     float64 `json:"aisle_offset" toml:"aisle_offset"` // distance from aisle centerline to the stall pivot
	FillProbability float64 `json:"fill_probability" toml:"fill_probability"`
}

// Validate checks the whole configuration and returns the first
// configuration error found. Compilation is fail-fast: an invalid
// configuration produces zero instances.
func (c Config) Validate() error {
	if err := c.Structure.Validate(); err != nil {
		return err
	}
	if err := c.Solar.Validate(); err != nil {
		return err
	}
	return c.Parking.Validate()
}

// Validate checks the structure dimensions.
func (c StructureConfig) Validate() error {
	if c.Length <= 0 {
		return errors.New(errors.ErrCodeInvalidDimension, "structure length must be positive, got %g", c.Length)
	}
	if c.Width <= 0 {
		return errors.New(errors.ErrCodeInvalidDimension, "structure width must be positive, got %g", c.Width)
	}
	if c.ColumnSpacing <= 0 {
		return errors.New(errors.ErrCodeInvalidSpacing, "column spacing must be positive, got %g", c.ColumnSpacing)
	}
	if c.EavesHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidDimension, "eaves height must be positive, got %g", c.EavesHeight)
	}
	if c.RidgeHeight <= c.EavesHeight {
		return errors.New(errors.ErrCodeInvalidDimension,
			"ridge height (%g) must exceed eaves height (%g)", c.RidgeHeight, c.EavesHeight)
	}
	return nil
}

// Validate checks both vehicle classes.
func (c ParkingConfig) Validate() error {
	if err := c.Car.Validate("car"); err != nil {
		return err
	}
	return c.Coach.Validate("coach")
}

// Validate checks the solar grid parameters.
func (c SolarConfig) Validate() error {
	if c.PanelWidth <= 0 || c.PanelLength <= 0 {
		return errors.New(errors.ErrCodeInvalidDimension,
			"panel dimensions must be positive, got %g x %g", c.PanelWidth, c.PanelLength)
	}
	if c.RowsPerSlope < 1 || c.PanelsPerRow < 1 {
		return errors.New(errors.ErrCodeInvalidDimension,
			"panel grid must have at least one row and one column, got %d x %d", c.RowsPerSlope, c.PanelsPerRow)
	}
	if c.GapAlongSlope < 0 || c.GapAlongLength < 0 {
		return errors.New(errors.ErrCodeInvalidSpacing,
			"panel gaps must not be negative, got %g / %g", c.GapAlongSlope, c.GapAlongLength)
	}
	return nil
}

// Validate checks one vehicle class. The class name is included in error
// messages so API and CLI users can tell car and coach failures apart.
func (c ClassConfig) Validate(class string) error {
	if c.Width <= 0 || c.Length <= 0 {
		return errors.New(errors.ErrCodeInvalidDimension,
			"%s stall dimensions must be positive, got %g x %g", class, c.Width, c.Length)
	}
	if c.AngleDegrees <= 0 || c.AngleDegrees >= 90 {
		// sin/cos degeneracy at the boundaries would produce infinite
		// or zero bay spacing.
		return errors.New(errors.ErrCodeInvalidAngle,
			"%s parking angle must be strictly between 0 and 90 degrees, got %g", class, c.AngleDegrees)
	}
	if c.AisleOffset <= 0 {
		return errors.New(errors.ErrCodeInvalidDimension,
			"%s aisle offset must be positive, got %g", class, c.AisleOffset)
	}
	if c.FillProbability < 0 || c.FillProbability > 1 {
		return errors.New(errors.ErrCodeInvalidFill,
			"%s fill probability must be in [0, 1], got %g", class, c.FillProbability)
	}
	return nil
}
