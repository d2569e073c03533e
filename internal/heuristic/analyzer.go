// Package heuristic is the deterministic fallback analyzer. It derives a
// complete insight from pattern matching and scoring alone, with no network
// calls, so the engine always has a result to return when no backend is
// configured or every backend attempt fails.
package heuristic

import (
	"fmt"
	"strings"

	"github.com/normanking/docsight/internal/insight"
	"github.com/normanking/docsight/internal/patterns"
)

// Analyzer derives insights from content using a recognizer library.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	lib *patterns.Library
}

// New creates an analyzer over the given recognizer library.
func New(lib *patterns.Library) *Analyzer {
	if lib == nil {
		lib = patterns.Default()
	}
	return &Analyzer{lib: lib}
}

// Analyze produces a complete insight for the request. It cannot fail: every
// branch ends in a fully populated record.
func (a *Analyzer) Analyze(req *insight.Request) *insight.Insight {
	content := req.Content
	words := wordCount(content)

	if req.Classification == insight.ClassRepository {
		return a.analyzeRepository(req, words)
	}
	return a.analyzeDocument(req, words)
}

// analyzeRepository handles README-plus-metadata input.
func (a *Analyzer) analyzeRepository(req *insight.Request, words int) *insight.Insight {
	repo := req.Repo
	if repo == nil {
		repo = &insight.RepoMetadata{Name: "repository"}
	}

	techs := a.extractTechnologies(req.Content, repo.Language)
	features := a.harvestList(req.Content, a.lib.FeatureHeaders)
	if len(features) == 0 {
		features = defaultRepoFeatures(repo, techs)
	}
	useCases := a.harvestList(req.Content, a.lib.UseCaseHeaders)
	if len(useCases) == 0 {
		useCases = defaultRepoUseCases(repo)
	}
	sections := a.harvestSections(req.Content)
	if len(sections) == 0 {
		sections = []string{"Overview", "Installation", "Usage"}
	}

	score := a.scoreRepository(req.Content, repo, words)

	out := &insight.Insight{
		Summary:        a.repoSummary(req.Content, repo, words),
		KeyFeatures:    features,
		Technologies:   techs,
		UseCases:       useCases,
		MainSections:   sections,
		Complexity:     bucket(score),
		Recommendation: repoRecommendation(repo, bucket(score)),
	}
	return out.Sanitize()
}

// analyzeDocument handles extracted and generic document input.
func (a *Analyzer) analyzeDocument(req *insight.Request, words int) *insight.Insight {
	docType := a.classifyDocument(req.Content)
	profile := a.profile(docType)

	techs := a.extractTechnologies(req.Content, "")
	if len(techs) == 0 {
		techs = append([]string{}, profile.Technologies...)
	}

	sections := a.harvestSections(req.Content)
	if len(sections) == 0 {
		sections = append([]string{}, profile.Sections...)
	}

	score := a.scoreDocument(req.Content, req.Document, words)

	out := &insight.Insight{
		Summary:        a.docSummary(req, docType, words),
		KeyFeatures:    append([]string{}, profile.Features...),
		Technologies:   techs,
		UseCases:       append([]string{}, profile.UseCases...),
		MainSections:   sections,
		Complexity:     bucket(score),
		Recommendation: docRecommendation(docType, req.Document),
	}
	return out.Sanitize()
}

// classifyDocument votes each document type's signal patterns over the
// content and picks the type with the most hits. Ties and zero hits resolve
// to the generic type; on equal counts the fixed order below keeps the
// result deterministic.
func (a *Analyzer) classifyDocument(content string) patterns.DocType {
	best := patterns.DocTypeGeneric
	bestHits := 0
	for _, dt := range []patterns.DocType{patterns.DocTypeResume, patterns.DocTypeReport, patterns.DocTypeProposal} {
		hits := 0
		for _, sig := range a.lib.DocSignals[dt] {
			if sig.MatchString(content) {
				hits++
			}
		}
		if hits > bestHits {
			best = dt
			bestHits = hits
		}
	}
	if bestHits < 2 {
		return patterns.DocTypeGeneric
	}
	return best
}

func (a *Analyzer) profile(dt patterns.DocType) patterns.Profile {
	if p, ok := a.lib.Profiles[dt]; ok {
		return p
	}
	return a.lib.Profiles[patterns.DocTypeGeneric]
}

// repoSummary references concrete facts so the summary is visibly tied to
// the input rather than boilerplate.
func (a *Analyzer) repoSummary(content string, repo *insight.RepoMetadata, words int) string {
	var b strings.Builder
	name := repo.Name
	if name == "" {
		name = "This repository"
	}
	if repo.Language != "" {
		fmt.Fprintf(&b, "%s is a %s project", name, repo.Language)
	} else {
		fmt.Fprintf(&b, "%s is a software project", name)
	}
	if repo.Stars > 0 {
		fmt.Fprintf(&b, " with %d GitHub stars", repo.Stars)
	}
	b.WriteString(".")
	if desc := strings.TrimSpace(repo.Description); desc != "" {
		fmt.Fprintf(&b, " %s.", strings.TrimSuffix(desc, "."))
	}
	if ex := excerpt(content, 160); ex != "" {
		fmt.Fprintf(&b, " The README (%d words) begins: %q", words, ex)
	}
	return b.String()
}

func (a *Analyzer) docSummary(req *insight.Request, dt patterns.DocType, words int) string {
	var b strings.Builder
	label := docTypeLabel(dt)
	if req.Classification == insight.ClassExtractedDocument {
		fmt.Fprintf(&b, "This appears to be a %s of about %d words.", label, words)
	} else {
		fmt.Fprintf(&b, "This document looks like a %s.", label)
	}
	if doc := req.Document; doc != nil {
		if doc.FileName != "" {
			fmt.Fprintf(&b, " File: %s", doc.FileName)
			if doc.FileSize > 0 {
				fmt.Fprintf(&b, " (%s)", humanSize(doc.FileSize))
			}
			b.WriteString(".")
		}
		if doc.PageCount > 0 {
			fmt.Fprintf(&b, " %d pages.", doc.PageCount)
		}
	}
	if ex := excerpt(stripMarker(req.Content), 160); ex != "" {
		fmt.Fprintf(&b, " It opens with: %q", ex)
	}
	return b.String()
}

func docTypeLabel(dt patterns.DocType) string {
	switch dt {
	case patterns.DocTypeResume:
		return "resume or CV"
	case patterns.DocTypeReport:
		return "report or research document"
	case patterns.DocTypeProposal:
		return "proposal or project plan"
	default:
		return "general document"
	}
}

func repoRecommendation(repo *insight.RepoMetadata, c insight.Complexity) string {
	name := repo.Name
	if name == "" {
		name = "this project"
	}
	switch c {
	case insight.ComplexityHigh:
		return fmt.Sprintf("%s is a substantial project; start with the architecture or overview section before diving into the code, and check the issue tracker for current direction.", name)
	case insight.ComplexityLow:
		return fmt.Sprintf("%s is compact; reading the README end to end and trying the quick-start example is the fastest way in.", name)
	default:
		return fmt.Sprintf("Follow the installation steps in %s's README first, then explore the usage examples to understand its main workflows.", name)
	}
}

func docRecommendation(dt patterns.DocType, doc *insight.DocumentInfo) string {
	switch dt {
	case patterns.DocTypeResume:
		return "Tailor the highlighted skills and experience to the specific role before sharing, and keep the most relevant achievements near the top."
	case patterns.DocTypeReport:
		return "Read the findings and conclusion sections first, then verify the methodology if the results will drive decisions."
	case patterns.DocTypeProposal:
		return "Check the timeline and budget sections against current constraints before approving or circulating this proposal."
	default:
		if doc != nil && !doc.Extracted {
			return "Text could not be extracted from this file; open it in its native application for the full content."
		}
		return "Skim the harvested sections to locate the parts relevant to you; the document does not follow a recognized template."
	}
}

func defaultRepoFeatures(repo *insight.RepoMetadata, techs []string) []string {
	features := []string{"Core functionality documented in the README"}
	if repo.Language != "" {
		features = append(features, fmt.Sprintf("Implemented in %s", repo.Language))
	}
	if len(techs) > 1 {
		features = append(features, fmt.Sprintf("Integrates with %s", strings.Join(techs[1:min(4, len(techs))], ", ")))
	}
	return features
}

func defaultRepoUseCases(repo *insight.RepoMetadata) []string {
	if strings.TrimSpace(repo.Description) != "" {
		return []string{strings.TrimSuffix(strings.TrimSpace(repo.Description), ".")}
	}
	return []string{"General software development"}
}
