package model

// SiteNames is the build-time list of landmarks users can collect photos for.
// Edit this to match the sites your deployment covers.
var SiteNames = []string{
	"Scott Stadium",
	"Rice Hall",
	"Olsson Hall",
	"Thornton Hall",
	"Aquatic & Fitness Center",
	"Rotunda",
	"Old Cabell Hall",
	"Newcomb Hall",
	"Bavaro Hall",
	"Alumni Hall",
	"Alderman Library",
	"Jefferson Hall/Hotel",
	"Pavillion VII / Colonnade Curb",
	"Madison Hall",
	"University Chapel",
	"Minor Hall",
	"New Cabell Hall",
	"Clark Hall",
	"Academical Village",
	"Brooks Hall",
}

// DefaultClassNames is the build-time list of model-friendly class labels.
// The order is a strict contract: index i must match position i of the
// trained model's output vector. It is independent of SiteNames; the two
// lists are allowed to disagree.
var DefaultClassNames = []string{
	"AcademicalVillage",
	"AldermanLibrary",
	"AlumniHall",
	"AquaticFitnessCenter",
	"BravoHall",
	"BrooksHall",
	"ClarkHall",
	"MadisonHall",
	"MinorHall",
	"NewCabellHall",
	"NewcombHall",
	"OldCabellHall",
	"OlssonHall",
	"RiceHall",
	"Rotunda",
	"ScottStadium",
	"ThorntonHall",
	"UniversityChapel",
}

// IsKnownSite reports whether name is one of the collectable sites.
func IsKnownSite(name string) bool {
	for _, s := range SiteNames {
		if s == name {
			return true
		}
	}
	return false
}
