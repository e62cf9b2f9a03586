package types

// Model represents a GGUF artifact found in the local cache directory.
type Model struct {
	// Filename of the artifact.
	// example: Meta-Llama-3-8B-Instruct.Q4_K_M.gguf
	ID string `json:"id" example:"Meta-Llama-3-8B-Instruct.Q4_K_M.gguf"`
	// Human-friendly name (filename without extension).
	// example: Meta-Llama-3-8B-Instruct.Q4_K_M
	Name string `json:"name" example:"Meta-Llama-3-8B-Instruct.Q4_K_M"`
	// Absolute path to the artifact on disk.
	// example: /root/.cache/huggingface/Meta-Llama-3-8B-Instruct.Q4_K_M.gguf
	Path string `json:"path" example:"/root/.cache/huggingface/Meta-Llama-3-8B-Instruct.Q4_K_M.gguf"`
	// Quantization suffix parsed from the filename, if any.
	// example: Q4_K_M
	Quant string `json:"quant,omitempty" example:"Q4_K_M"`
	// File size in bytes.
	// example: 4920734080
	SizeBytes int64 `json:"size_bytes" example:"4920734080"`
}
