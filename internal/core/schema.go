package core

// FeatureSchema is the fixed ordered list of biopsy measurements the model
// expects. The order matters: trained models consume feature vectors in
// exactly this order, and validation reports failures in this order.
var FeatureSchema = []string{
	"radius_mean",
	"texture_mean",
	"perimeter_mean",
	"area_mean",
	"smoothness_mean",
	"compactness_mean",
	"concavity_mean",
	"concave_points_mean",
	"symmetry_mean",
	"fractal_dimension_mean",
}

// FeatureNames returns a copy of the schema so callers cannot reorder it
func FeatureNames() []string {
	names := make([]string, len(FeatureSchema))
	copy(names, FeatureSchema)
	return names
}
