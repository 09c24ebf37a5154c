package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/config"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/domain"
)

// systemPrompt sets the coach persona for every call.
const systemPrompt = `Você é o Dr. Titan. Identidade: Biomecânico de Elite e Treinador Militar.
Tom: Direto, técnico, curto e motivador.
Sua missão é gerar protocolos de treino hiper-otimizados.`

// Fallback sentences for the debrief flow, which must never fail.
const (
	debriefFallback = "Análise indisponível no momento."
	debriefDefault  = "Treino registrado com sucesso."
)

// geminiGenerator talks to Gemini through its OpenAI-compatible chat
// completions surface.
type geminiGenerator struct {
	client *openai.Client
	model  string
}

// NewGeminiGenerator builds a PlanGenerator from the gemini config
// section.
func NewGeminiGenerator(cfg config.GeminiConfig) (PlanGenerator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &geminiGenerator{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}, nil
}

// planPayload mirrors the JSON shape the model is instructed to return.
type planPayload struct {
	Analise string                `json:"analise"`
	Rotina  map[string]dayPayload `json:"rotina"`
}

type dayPayload struct {
	Foco       string   `json:"foco"`
	Exercicios []string `json:"exercicios"`
}

func (g *geminiGenerator) GeneratePlan(ctx context.Context, profile *domain.Profile) (*GeneratedPlan, error) {
	days := make([]string, len(profile.Days))
	for i, d := range profile.Days {
		days[i] = string(d)
	}

	prompt := fmt.Sprintf(`Gere um treino JSON (PT-BR).
Usuário: %s, Nível: %s.
Dias: %s.
Foco: %s.
Objetivo Extra: %s.
Módulos: %s.

Retorne APENAS um JSON com esta estrutura exata, sem markdown:
{
    "analise": "Uma breve frase motivacional técnica sobre o plano.",
    "rotina": {
        "Seg": { "foco": "Peito", "exercicios": ["Supino", ...] },
        ... para cada dia selecionado
    }
}`,
		profile.Name,
		profile.Maturity.Label(),
		strings.Join(days, ", "),
		strings.Join(profile.Priorities, ", "),
		profile.CustomGoal,
		strings.Join(profile.Modules, ", "),
	)

	text, err := g.complete(ctx, prompt, true)
	if err != nil {
		log.Printf("WARN: plan generation request failed: %v", err)
		return nil, ErrGenerationFailed
	}

	var payload planPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		log.Printf("WARN: plan generation returned malformed JSON: %v", err)
		return nil, ErrGenerationFailed
	}

	plan, err := payload.toPlan()
	if err != nil {
		log.Printf("WARN: plan generation returned invalid shape: %v", err)
		return nil, ErrGenerationFailed
	}

	return &GeneratedPlan{Plan: plan, Analysis: payload.Analise}, nil
}

// toPlan validates the payload against the closed weekday set and the
// required day shape. Any mismatch fails the whole response.
func (p planPayload) toPlan() (domain.Plan, error) {
	if p.Analise == "" || len(p.Rotina) == 0 {
		return nil, errors.New("empty analysis or routine")
	}
	plan := make(domain.Plan, len(p.Rotina))
	for rawDay, d := range p.Rotina {
		day, err := domain.ParseWeekday(rawDay)
		if err != nil {
			return nil, fmt.Errorf("unknown weekday %q", rawDay)
		}
		if d.Foco == "" || len(d.Exercicios) == 0 {
			return nil, fmt.Errorf("day %s is missing focus or exercises", day)
		}
		plan[day] = domain.Day{Focus: d.Foco, Exercises: d.Exercicios}
	}
	return plan, nil
}

func (g *geminiGenerator) SwapExercise(ctx context.Context, exercise, reason string) (string, error) {
	prompt := fmt.Sprintf(
		`Troque o exercício "%s" considerando este motivo: "%s". Retorne APENAS o nome do novo exercício. Sem explicações.`,
		exercise, reason,
	)

	text, err := g.complete(ctx, prompt, false)
	if err != nil {
		log.Printf("WARN: exercise swap request failed: %v", err)
		return "", ErrSwapFailed
	}

	name := cleanSwapReply(text)
	if name == "" {
		return "", ErrSwapFailed
	}
	return name, nil
}

// cleanSwapReply strips quotes and newlines from the model's reply,
// which is supposed to be a bare exercise name.
func cleanSwapReply(text string) string {
	replacer := strings.NewReplacer(`"`, "", "\n", "")
	return strings.TrimSpace(replacer.Replace(text))
}

func (g *geminiGenerator) SummarizeDay(ctx context.Context, logs []domain.ExecutionLog, userName string) string {
	encoded, err := json.Marshal(logs)
	if err != nil {
		return debriefFallback
	}

	prompt := fmt.Sprintf(
		"Analise este treino concluído. Nome: %s. Logs: %s. Seja curto, militar e analítico. Dê um feedback de 2 frases.",
		userName, string(encoded),
	)

	text, err := g.complete(ctx, prompt, false)
	if err != nil {
		log.Printf("WARN: debrief request failed: %v", err)
		return debriefFallback
	}
	if strings.TrimSpace(text) == "" {
		return debriefDefault
	}
	return text
}

// complete issues one chat completion with the coach system prompt.
func (g *geminiGenerator) complete(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
