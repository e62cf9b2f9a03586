package llm

import "strings"

// Llama-3 instruct special tokens.
const (
	llama3BOS       = "<|begin_of_text|>"
	llama3HeaderBeg = "<|start_header_id|>"
	llama3HeaderEnd = "<|end_header_id|>"
	// EOT terminates every turn; it is also the default stop sequence.
	EOT = "<|eot_id|>"
)

// FormatLlama3 renders messages with the Llama-3 instruct template and leaves
// an open assistant header for the model to continue.
func FormatLlama3(msgs []Message) string {
	var b strings.Builder
	b.WriteString(llama3BOS)
	for _, m := range msgs {
		role := strings.TrimSpace(m.Role)
		if role == "" {
			role = "user"
		}
		b.WriteString(llama3HeaderBeg)
		b.WriteString(role)
		b.WriteString(llama3HeaderEnd)
		b.WriteString("\n\n")
		b.WriteString(strings.TrimSpace(m.Content))
		b.WriteString(EOT)
	}
	b.WriteString(llama3HeaderBeg)
	b.WriteString("assistant")
	b.WriteString(llama3HeaderEnd)
	b.WriteString("\n\n")
	return b.String()
}
