package llm

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// trimStop cuts text at the earliest occurrence of any stop sequence. The
// bindings may leave the matched sequence in the output.
func trimStop(text string, stop []string) string {
	cut := len(text)
	for _, s := range stop {
		if s == "" {
			continue
		}
		if i := strings.Index(text, s); i >= 0 && i < cut {
			cut = i
		}
	}
	return text[:cut]
}

func finishReason(completionTokens, maxTokens int) string {
	if maxTokens > 0 && completionTokens >= maxTokens {
		return FinishLength
	}
	return FinishStop
}

func newID(prefix string) string { return prefix + "-" + uuid.NewString() }

func now() int64 { return time.Now().Unix() }
