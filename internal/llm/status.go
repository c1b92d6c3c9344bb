package llm

import (
	"context"
	"errors"
	"strings"
)

// Status describes whether the configured provider can serve requests
type Status struct {
	Enabled   bool     `json:"enabled"`
	Provider  string   `json:"provider,omitempty"`
	Available bool     `json:"available"`
	Missing   []string `json:"missing_models,omitempty"`
	Message   string   `json:"message"`
}

// CheckStatus probes p. Ollama additionally reports models that are not
// pulled yet.
func CheckStatus(ctx context.Context, p Provider) Status {
	if p == nil {
		return Status{Message: "LLM disabled; running deterministic scoring only"}
	}

	base := p
	for {
		g, ok := base.(*Guard)
		if !ok {
			break
		}
		base = g.Unwrap()
	}

	st := Status{Enabled: true, Provider: p.Name()}

	if ollama, ok := base.(*OllamaProvider); ok {
		missing, err := ollama.MissingModels(ctx)
		var statusErr *StatusError
		switch {
		case errors.As(err, &statusErr):
			st.Message = "Ollama is not responding"
		case err != nil:
			st.Message = "Cannot connect to Ollama"
		case len(missing) > 0:
			st.Missing = missing
			st.Message = "Missing models: " + strings.Join(missing, ", ")
		default:
			st.Available = true
			st.Message = "Ollama is running and all models are available"
		}
		return st
	}

	st.Available = p.IsAvailable(ctx)
	if st.Available {
		st.Message = p.Name() + " is reachable"
	} else {
		st.Message = p.Name() + " is not reachable"
	}
	return st
}
