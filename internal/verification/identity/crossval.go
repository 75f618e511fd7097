package identity

import (
	"fmt"

	"github.com/rentora/rentora-backend/internal/verification/domain"
)

// backPrefixLen is the length of the short-form identifier embedded at the
// start of the back-side identifier: 12 digits plus 2 hyphens.
const backPrefixLen = 14

// Failure reasons shown to the user. The mobile client renders these
// verbatim, so keep them stable.
const (
	ReasonFrontUndetectable = "could not detect an ID number on the front image"
	ReasonBackUndetectable  = "could not detect an ID number on the back image"
)

// CrossValidate decides the verification outcome for a parsed front/back
// identifier pair. Checks run in strict order and short-circuit at the
// first failure. Pure and total: always returns exactly one outcome, never
// panics. Empty strings mean the side was undetectable.
func CrossValidate(front, back string) domain.Outcome {
	if front == "" {
		return failed(ReasonFrontUndetectable)
	}

	if back == "" {
		return failed(ReasonBackUndetectable)
	}

	if len(back) < backPrefixLen {
		return failed(fmt.Sprintf("back ID number too short: got %d characters, need at least %d", len(back), backPrefixLen))
	}

	// The back-side identifier embeds the front-side number as its first
	// 14 characters; equality is the cross-document consistency check.
	backPrefix := back[:backPrefixLen]
	if backPrefix != front {
		return failed(fmt.Sprintf("front and back ID numbers do not match: front %s, back %s", front, backPrefix))
	}

	return domain.Outcome{Status: domain.StatusVerified}
}

func failed(reason string) domain.Outcome {
	return domain.Outcome{Status: domain.StatusFailed, Reason: reason}
}
