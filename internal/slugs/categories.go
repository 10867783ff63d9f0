package slugs

// DefaultSchemaType is used for categories missing from the lookup table.
const DefaultSchemaType = "LocalBusiness"

// schemaTypes maps business categories (slugified) to schema.org types.
var schemaTypes = map[string]string{
	"food-dining":           "Restaurant",
	"restaurant":            "Restaurant",
	"cafe":                  "CafeOrCoffeeShop",
	"coffee-shop":           "CafeOrCoffeeShop",
	"bar":                   "BarOrPub",
	"bakery":                "Bakery",
	"beauty-grooming":       "BeautySalon",
	"salon":                 "BeautySalon",
	"barber":                "HairSalon",
	"spa":                   "DaySpa",
	"health-wellness":       "HealthAndBeautyBusiness",
	"fitness":               "ExerciseGym",
	"gym":                   "ExerciseGym",
	"medical":               "MedicalBusiness",
	"dental":                "Dentist",
	"retail-shopping":       "Store",
	"retail":                "Store",
	"professional-services": "ProfessionalService",
	"legal":                 "LegalService",
	"financial":             "FinancialService",
	"real-estate":           "RealEstateAgent",
	"home-services":         "HomeAndConstructionBusiness",
	"automotive":            "AutomotiveBusiness",
	"entertainment":         "EntertainmentBusiness",
	"hospitality":           "LodgingBusiness",
	"lodging":               "LodgingBusiness",
	"education":             "EducationalOrganization",
	"pet-services":          "LocalBusiness",
}

// SchemaTypeFor maps a free-form business category to a schema.org type.
func SchemaTypeFor(category string) string {
	if category == "" {
		return DefaultSchemaType
	}
	if schemaType, ok := schemaTypes[Slugify(category)]; ok {
		return schemaType
	}
	return DefaultSchemaType
}
