// Package patterns holds the recognizer data used by the heuristic analyzer:
// technology keyword families, document-type signals, section header shapes,
// and complexity vocabulary. It is pure data behind constructors so the
// scoring logic in the heuristic package can be tested against a known
// library, and the library can be revised without touching the scoring.
package patterns

import "regexp"

// Term is a single recognizer: a canonical label plus the pattern that
// detects it in lowercased content.
type Term struct {
	Label   string
	Pattern *regexp.Regexp
}

// Family groups related terms (languages, frontend frameworks, ...).
type Family struct {
	Name  string
	Terms []Term
}

// DocType is the heuristic document classification for non-repository input.
type DocType string

const (
	DocTypeResume   DocType = "resume"
	DocTypeReport   DocType = "report"
	DocTypeProposal DocType = "proposal"
	DocTypeGeneric  DocType = "document"
)

// Profile carries the per-document-type canned output used when nothing
// better can be extracted: fallback technology labels, a feature list, and
// a section skeleton.
type Profile struct {
	Technologies []string
	Features     []string
	UseCases     []string
	Sections     []string
}

// Library is the full recognizer set handed to the heuristic analyzer.
type Library struct {
	// TechFamilies are scanned over content; every term that matches
	// contributes its label to the technologies field.
	TechFamilies []Family

	// DocSignals map document types to the patterns that vote for them.
	DocSignals map[DocType][]*regexp.Regexp

	// ListHeaders are the section names whose bullet lists are harvested
	// as features or use cases in repository content.
	FeatureHeaders []string
	UseCaseHeaders []string

	// MarkdownHeader matches a markdown header line and captures its text.
	MarkdownHeader *regexp.Regexp

	// BulletItem matches a bullet list line and captures the item text.
	BulletItem *regexp.Regexp

	// ComplexityTerms are domain words whose presence raises the
	// complexity score.
	ComplexityTerms []*regexp.Regexp

	// Profiles are the per-type canned outputs.
	Profiles map[DocType]Profile
}

func re(expr string) *regexp.Regexp { return regexp.MustCompile(expr) }

func term(label, expr string) Term { return Term{Label: label, Pattern: re(expr)} }

// Default returns the stock recognizer library.
func Default() *Library {
	return &Library{
		TechFamilies: []Family{
			{
				Name: "languages",
				Terms: []Term{
					term("Go", `(?i)\b(golang|go)\b`),
					term("Python", `(?i)\bpython\b`),
					term("JavaScript", `(?i)\bjavascript\b`),
					term("TypeScript", `(?i)\btypescript\b`),
					term("Rust", `(?i)\brust\b`),
					term("Java", `(?i)\bjava\b`),
					term("C++", `(?i)\bc\+\+`),
					term("Ruby", `(?i)\bruby\b`),
					term("Kotlin", `(?i)\bkotlin\b`),
					term("Swift", `(?i)\bswift\b`),
				},
			},
			{
				Name: "frontend",
				Terms: []Term{
					term("React", `(?i)\breact\b`),
					term("Vue", `(?i)\bvue(\.js)?\b`),
					term("Angular", `(?i)\bangular\b`),
					term("Svelte", `(?i)\bsvelte\b`),
					term("Next.js", `(?i)\bnext\.?js\b`),
					term("Tailwind CSS", `(?i)\btailwind\b`),
				},
			},
			{
				Name: "backend",
				Terms: []Term{
					term("Node.js", `(?i)\bnode(\.js)?\b`),
					term("Express", `(?i)\bexpress(\.js)?\b`),
					term("Django", `(?i)\bdjango\b`),
					term("Flask", `(?i)\bflask\b`),
					term("Spring", `(?i)\bspring\b`),
					term("FastAPI", `(?i)\bfastapi\b`),
					term("gRPC", `(?i)\bgrpc\b`),
					term("GraphQL", `(?i)\bgraphql\b`),
					term("REST API", `(?i)\brest(ful)?\s+api\b`),
				},
			},
			{
				Name: "datastores",
				Terms: []Term{
					term("PostgreSQL", `(?i)\bpostgres(ql)?\b`),
					term("MySQL", `(?i)\bmysql\b`),
					term("MongoDB", `(?i)\bmongo(db)?\b`),
					term("Redis", `(?i)\bredis\b`),
					term("SQLite", `(?i)\bsqlite\b`),
					term("Elasticsearch", `(?i)\belasticsearch\b`),
					term("Kafka", `(?i)\bkafka\b`),
				},
			},
			{
				Name: "cloud",
				Terms: []Term{
					term("Docker", `(?i)\bdocker\b`),
					term("Kubernetes", `(?i)\b(kubernetes|k8s)\b`),
					term("AWS", `(?i)\baws\b`),
					term("Google Cloud", `(?i)\b(gcp|google cloud)\b`),
					term("Azure", `(?i)\bazure\b`),
					term("Terraform", `(?i)\bterraform\b`),
					term("CI/CD", `(?i)\bci/cd\b`),
				},
			},
			{
				Name: "build",
				Terms: []Term{
					term("Webpack", `(?i)\bwebpack\b`),
					term("Vite", `(?i)\bvite\b`),
					term("Make", `(?i)\bmakefile\b`),
					term("Gradle", `(?i)\bgradle\b`),
					term("Maven", `(?i)\bmaven\b`),
					term("npm", `(?i)\bnpm\b`),
				},
			},
		},

		DocSignals: map[DocType][]*regexp.Regexp{
			DocTypeResume: {
				re(`(?i)\bresume\b`), re(`(?i)\bcurriculum vitae\b`), re(`(?i)\bcv\b`),
				re(`(?i)\bwork experience\b`), re(`(?i)\bprofessional experience\b`),
				re(`(?i)\beducation\b.*\bskills\b|\bskills\b.*\beducation\b`),
				re(`(?i)\bemployment history\b`),
			},
			DocTypeReport: {
				re(`(?i)\breport\b`), re(`(?i)\banalysis\b`), re(`(?i)\bfindings\b`),
				re(`(?i)\bresearch\b`), re(`(?i)\bmethodology\b`), re(`(?i)\bconclusion\b`),
				re(`(?i)\bquarterly\b|\bannual\b`),
			},
			DocTypeProposal: {
				re(`(?i)\bproposal\b`), re(`(?i)\bproject plan\b`), re(`(?i)\broadmap\b`),
				re(`(?i)\bmilestone`), re(`(?i)\bbudget\b`), re(`(?i)\bdeliverable`),
				re(`(?i)\bscope of work\b`),
			},
		},

		FeatureHeaders: []string{"features", "key features", "highlights", "capabilities", "what it does"},
		UseCaseHeaders: []string{"use cases", "usage", "examples", "when to use"},

		MarkdownHeader: re(`(?m)^#{1,6}\s+(.+?)\s*$`),
		BulletItem:     re(`(?m)^\s*[-*+]\s+(.+?)\s*$`),

		ComplexityTerms: []*regexp.Regexp{
			re(`(?i)\barchitecture\b`),
			re(`(?i)\bdistributed\b`),
			re(`(?i)\bscalab`),
			re(`(?i)\bmicroservice`),
			re(`(?i)\bconcurren`),
			re(`(?i)\bperformance\b`),
			re(`(?i)\boptimiz`),
			re(`(?i)\balgorithm`),
			re(`(?i)\binfrastructure\b`),
			re(`(?i)\bpipeline\b`),
			re(`(?i)\bmachine learning\b|\bneural\b`),
			re(`(?i)\bencryption\b|\bcryptograph`),
		},

		Profiles: map[DocType]Profile{
			DocTypeResume: {
				Technologies: []string{"Professional documentation"},
				Features: []string{
					"Professional experience summary",
					"Skills and qualifications",
					"Education and certifications",
				},
				UseCases: []string{
					"Job applications",
					"Professional networking",
					"Career records",
				},
				Sections: []string{"Summary", "Experience", "Skills", "Education"},
			},
			DocTypeReport: {
				Technologies: []string{"Research documentation"},
				Features: []string{
					"Structured findings",
					"Supporting data and analysis",
					"Conclusions and recommendations",
				},
				UseCases: []string{
					"Decision support",
					"Knowledge sharing",
					"Record keeping",
				},
				Sections: []string{"Introduction", "Methodology", "Findings", "Conclusion"},
			},
			DocTypeProposal: {
				Technologies: []string{"Planning documentation"},
				Features: []string{
					"Project objectives",
					"Timeline and milestones",
					"Resource planning",
				},
				UseCases: []string{
					"Project approval",
					"Stakeholder alignment",
					"Planning reference",
				},
				Sections: []string{"Overview", "Objectives", "Timeline", "Budget"},
			},
			DocTypeGeneric: {
				Technologies: []string{"General documentation"},
				Features: []string{
					"Written content",
					"Reference material",
				},
				UseCases: []string{
					"Information sharing",
					"Documentation",
				},
				Sections: []string{"Introduction", "Content", "Summary"},
			},
		},
	}
}
