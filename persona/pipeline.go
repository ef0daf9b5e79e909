package persona

import (
	"context"
	"errors"
	"fmt"

	"github.com/smallnest/personaforge/graph"
	"github.com/smallnest/personaforge/llm"
	"github.com/smallnest/personaforge/log"
)

// Stage identifies a phase of report generation as seen by callers.
type Stage string

const (
	StageScraping           Stage = "scraping"
	StageProductProfile     Stage = "product-profile"
	StageCustomerProfile    Stage = "customer-profile"
	StageGeneratingPersonas Stage = "generating-personas"
	StageComplete           Stage = "complete"
	StageError              Stage = "error"
)

// Persona count bounds for a single run.
const (
	DefaultPersonaCount = 3
	MinPersonaCount     = 1
	MaxPersonaCount     = 5
)

// StageEvent is a progress notification emitted while a pipeline runs.
// Data carries the stage's freshly produced value on completion events
// (a *ProductProfile, *CustomerProfile or []UserPersona) and is nil otherwise.
type StageEvent struct {
	Stage   Stage
	Message string
	Data    any
}

// StageListener receives pipeline progress events on the invoking goroutine.
type StageListener func(StageEvent)

// Result is the state accumulated by a pipeline run. On failure the fields
// produced before the failing stage remain populated.
type Result struct {
	ScrapedContent  string           `json:"scrapedContent"`
	PersonaCount    int              `json:"personaCount"`
	ProductProfile  *ProductProfile  `json:"productProfile,omitempty"`
	CustomerProfile *CustomerProfile `json:"customerProfile,omitempty"`
	Personas        []UserPersona    `json:"personas,omitempty"`
}

// Graph node names.
const (
	nodeProductProfile   = "create_product_profile"
	nodeCustomerProfile  = "create_customer_profile"
	nodeGeneratePersonas = "create_user_personas"
)

// Pipeline runs the three profile stages in order: product profile from
// scraped content, customer profile from the product profile, then one
// atomic persona batch from both.
type Pipeline struct {
	client    *llm.Client
	runnable  *graph.Runnable[*Result]
	listeners []StageListener
}

// NewPipeline builds the stage graph around the given LLM client.
func NewPipeline(client *llm.Client) *Pipeline {
	p := &Pipeline{client: client}

	g := graph.New[*Result]()
	g.AddNode(nodeProductProfile, "derive a product profile from scraped website content", p.createProductProfile)
	g.AddNode(nodeCustomerProfile, "derive the ideal customer profile from the product profile", p.createCustomerProfile)
	g.AddNode(nodeGeneratePersonas, "generate the requested number of user personas", p.createUserPersonas)
	g.SetEntryPoint(nodeProductProfile)
	g.AddEdge(nodeProductProfile, nodeCustomerProfile)
	g.AddEdge(nodeCustomerProfile, nodeGeneratePersonas)
	g.AddEdge(nodeGeneratePersonas, graph.END)

	// The wiring above is static, Compile cannot fail here.
	p.runnable, _ = g.Compile()
	return p
}

// AddListener registers a listener for every subsequent Run.
func (p *Pipeline) AddListener(l StageListener) {
	p.listeners = append(p.listeners, l)
}

// ClampPersonaCount normalizes a requested persona count: non-positive values
// fall back to the default, everything else is clamped into the allowed range.
func ClampPersonaCount(count int) int {
	switch {
	case count <= 0:
		return DefaultPersonaCount
	case count < MinPersonaCount:
		return MinPersonaCount
	case count > MaxPersonaCount:
		return MaxPersonaCount
	}
	return count
}

// Run executes all stages sequentially and returns the accumulated result.
// Stage N+1 never starts before stage N has succeeded. On failure the
// returned Result still holds everything produced before the failing stage
// and the error names that stage. Listeners passed here apply to this run
// only, in addition to listeners registered with AddListener.
func (p *Pipeline) Run(ctx context.Context, scrapedContent string, personaCount int, extra ...StageListener) (*Result, error) {
	state := &Result{
		ScrapedContent: scrapedContent,
		PersonaCount:   ClampPersonaCount(personaCount),
	}

	listeners := append(append([]StageListener{}, p.listeners...), extra...)
	bridge := graph.ListenerFunc[*Result](func(_ context.Context, event graph.Event, nodeName string, st *Result, err error) {
		emit(listeners, stageEvent(event, nodeName, st, err))
	})

	log.Debug("pipeline: starting run, personaCount=%d, content=%d bytes", state.PersonaCount, len(scrapedContent))

	final, err := p.runnable.Invoke(ctx, state, bridge)
	if err != nil {
		var nodeErr *graph.NodeError
		if errors.As(err, &nodeErr) {
			err = nodeErr.Err
		}
		log.Error("pipeline: run failed: %v", err)
		return final, err
	}

	emit(listeners, StageEvent{Stage: StageComplete, Message: "Report complete", Data: final})
	log.Info("pipeline: run complete, %d personas", len(final.Personas))
	return final, nil
}

func (p *Pipeline) createProductProfile(ctx context.Context, state *Result) (*Result, error) {
	prompt := productProfilePrompt(state.ScrapedContent)
	profile, err := llm.GenerateStructured[ProductProfile](ctx, p.client, prompt)
	if err != nil {
		return state, fmt.Errorf("product profile generation failed: %w", err)
	}
	state.ProductProfile = &profile
	return state, nil
}

func (p *Pipeline) createCustomerProfile(ctx context.Context, state *Result) (*Result, error) {
	if state.ProductProfile == nil {
		return state, errors.New("customer profile generation failed: product profile is required")
	}
	profile, err := llm.GenerateStructured[CustomerProfile](ctx, p.client, customerProfilePrompt(*state.ProductProfile))
	if err != nil {
		return state, fmt.Errorf("customer profile generation failed: %w", err)
	}
	if profile.Type != CustomerTypeB2B && profile.Type != CustomerTypeB2C {
		return state, fmt.Errorf("customer profile generation failed: unknown customer type %q", profile.Type)
	}
	state.CustomerProfile = &profile
	return state, nil
}

func (p *Pipeline) createUserPersonas(ctx context.Context, state *Result) (*Result, error) {
	if state.ProductProfile == nil || state.CustomerProfile == nil {
		return state, errors.New("persona generation failed: product and customer profiles are required")
	}
	prompt := userPersonasPrompt(*state.ProductProfile, *state.CustomerProfile, state.PersonaCount)
	set, err := llm.GenerateStructured[personaSet](ctx, p.client, prompt)
	if err != nil {
		return state, fmt.Errorf("persona generation failed: %w", err)
	}
	if len(set.Personas) != state.PersonaCount {
		return state, fmt.Errorf("persona generation failed: expected %d personas, got %d", state.PersonaCount, len(set.Personas))
	}
	state.Personas = set.Personas
	return state, nil
}

func stageEvent(event graph.Event, nodeName string, state *Result, err error) StageEvent {
	if event == graph.EventError {
		return StageEvent{Stage: StageError, Message: err.Error()}
	}

	switch nodeName {
	case nodeProductProfile:
		if event == graph.EventStart {
			return StageEvent{Stage: StageProductProfile, Message: "Creating product profile..."}
		}
		return StageEvent{Stage: StageProductProfile, Message: "Product profile created", Data: state.ProductProfile}
	case nodeCustomerProfile:
		if event == graph.EventStart {
			return StageEvent{Stage: StageCustomerProfile, Message: "Creating customer profile..."}
		}
		return StageEvent{Stage: StageCustomerProfile, Message: "Customer profile created", Data: state.CustomerProfile}
	default:
		if event == graph.EventStart {
			return StageEvent{Stage: StageGeneratingPersonas, Message: "Generating user personas..."}
		}
		return StageEvent{Stage: StageGeneratingPersonas, Message: "User personas generated", Data: state.Personas}
	}
}

func emit(listeners []StageListener, ev StageEvent) {
	for _, l := range listeners {
		l(ev)
	}
}
