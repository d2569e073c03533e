package heuristic

import "github.com/normanking/docsight/internal/insight"

// Complexity scoring accumulates weighted points from independent signals
// and maps the total onto the closed Low/Medium/High enumeration. The
// thresholds below are tuned so that more of any one signal can only raise
// the bucket, never lower it.
const (
	bucketMedium = 3 // scores below this are Low
	bucketHigh   = 5 // scores at or above this are High
)

func bucket(score int) insight.Complexity {
	switch {
	case score >= bucketHigh:
		return insight.ComplexityHigh
	case score >= bucketMedium:
		return insight.ComplexityMedium
	default:
		return insight.ComplexityLow
	}
}

// scoreRepository combines README length, popularity, repository size, and
// complexity vocabulary. A star count above 1000 alone is enough to reach
// the High bucket.
func (a *Analyzer) scoreRepository(content string, repo *insight.RepoMetadata, words int) int {
	score := wordScore(words)
	score += a.vocabScore(content)

	switch {
	case repo.Stars > 1000:
		score += 5
	case repo.Stars > 100:
		score += 2
	case repo.Stars > 10:
		score += 1
	}

	switch {
	case repo.Size > 10_000: // KB
		score += 2
	case repo.Size > 1_000:
		score += 1
	}

	return score
}

// scoreDocument combines text length, file size and page count bands, and
// complexity vocabulary.
func (a *Analyzer) scoreDocument(content string, doc *insight.DocumentInfo, words int) int {
	score := wordScore(words)
	score += a.vocabScore(content)

	if doc != nil {
		switch {
		case doc.FileSize > 1<<20:
			score += 2
		case doc.FileSize > 100<<10:
			score += 1
		}
		switch {
		case doc.PageCount > 20:
			score += 2
		case doc.PageCount > 5:
			score += 1
		}
	}

	return score
}

func wordScore(words int) int {
	switch {
	case words > 3000:
		return 2
	case words > 1000:
		return 1
	default:
		return 0
	}
}

// vocabScore counts how many distinct complexity terms appear in the content.
func (a *Analyzer) vocabScore(content string) int {
	hits := 0
	for _, term := range a.lib.ComplexityTerms {
		if term.MatchString(content) {
			hits++
		}
	}
	switch {
	case hits >= 5:
		return 2
	case hits >= 2:
		return 1
	default:
		return 0
	}
}
