package skills

// defaultAliases maps lower-cased skill variations to their canonical form.
// The table is many-to-one and intentionally data, not logic: callers can
// extend or replace it via NormalizerOption. Derived from the variation lists
// the job portal shipped with, trimmed to the entries the matcher exercises.
var defaultAliases = map[string]string{
	// Languages
	"js":         "javascript",
	"ecmascript": "javascript",
	"es6":        "javascript",
	"ts":         "typescript",
	"golang":     "go",
	"py":         "python",
	"c sharp":    "c#",
	"csharp":     "c#",
	"cpp":        "c++",

	// Frontend
	"react.js":     "react",
	"reactjs":      "react",
	"react js":     "react",
	"vue":          "vue.js",
	"vuejs":        "vue.js",
	"angularjs":    "angular",
	"angular.js":   "angular",
	"next":         "next.js",
	"nextjs":       "next.js",
	"html":         "html5",
	"css":          "css3",
	"tailwind":     "tailwind css",
	"tailwindcss":  "tailwind css",
	"material-ui":  "material ui",
	"mui":          "material ui",

	// Backend
	"node":       "node.js",
	"nodejs":     "node.js",
	"node js":    "node.js",
	"express":    "express.js",
	"expressjs":  "express.js",
	"express js": "express.js",
	"spring":     "spring boot",
	"springboot": "spring boot",
	"dotnet":     ".net",
	"asp.net":    ".net",
	"rails":      "ruby on rails",
	"fast api":   "fastapi",

	// Data stores
	"postgres":   "postgresql",
	"mongo":      "mongodb",
	"mssql":      "sql server",
	"dynamo db":  "dynamodb",

	// Cloud and infra
	"amazon web services":   "aws",
	"google cloud":          "gcp",
	"google cloud platform": "gcp",
	"microsoft azure":       "azure",
	"k8s":                   "kubernetes",
	"gh actions":            "github actions",

	// Practices
	"continuous integration": "ci/cd",
	"continuous deployment":  "ci/cd",
	"rest":                   "rest api",
	"restful":                "rest api",
	"micro services":         "microservices",
	"ml":                     "machine learning",
	"nlp":                    "natural language processing",
}
