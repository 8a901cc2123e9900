package taxonomy

// DefaultVersion identifies the built-in taxonomy.
const DefaultVersion = "v1"

// defaultFamilies is the built-in v1 role-to-family mapping. The mapping is
// deterministic configuration, never inferred at runtime.
var defaultFamilies = map[string]string{
	// Software engineering
	"Backend Engineer":           "Software Engineering",
	"Frontend Engineer":          "Software Engineering",
	"Full Stack Engineer":        "Software Engineering",
	"Mobile Engineer":            "Software Engineering",
	"Platform Engineer":          "Software Engineering",
	"DevOps Engineer":            "Software Engineering",
	"Embedded Software Engineer": "Software Engineering",

	// Quality
	"QA Engineer (Manual)":                         "Quality Engineering",
	"QA Engineer (Automation)":                     "Quality Engineering",
	"SDET (Software Development Engineer in Test)": "Quality Engineering",
	"Performance Test Engineer":                    "Quality Engineering",

	// Data / ML
	"Data Engineer":             "Data / ML",
	"Analytics Engineer":        "Data / ML",
	"BI Engineer":               "Data / ML",
	"Data Analyst":              "Data / ML",
	"Data Scientist":            "Data / ML",
	"Machine Learning Engineer": "Data / ML",
	"MLOps Engineer":            "Data / ML",

	// Infrastructure / systems
	"Site Reliability Engineer (SRE)": "Infrastructure / Systems",
	"Cloud Infrastructure Engineer":   "Infrastructure / Systems",
	"Systems Engineer":                "Infrastructure / Systems",
	"Systems Administrator":           "Infrastructure / Systems",
	"Network Engineer":                "Infrastructure / Systems",

	// Security
	"Security Engineer": "Security",
	"Security Analyst":  "Security",

	// Program / product / solutions
	"Technical Program Manager (TPM)": "Program / Product",
	"Program Manager":                 "Program / Product",
	"Product Manager":                 "Program / Product",
	"Solutions Engineer":              "Program / Product",
}

// Default returns the built-in v1 taxonomy.
func Default() *Taxonomy {
	t, err := New(DefaultVersion, defaultFamilies)
	if err != nil {
		// The built-in table is static; a construction failure is a
		// programming error.
		panic(err)
	}
	return t
}
