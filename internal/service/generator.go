package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/recetario/backend/internal/apperror"
	"github.com/recetario/backend/internal/models"
)

// GeneratorConfig configures the external completion provider. The
// client lives for as long as the service instance; there is no lazily
// built process-wide handle.
type GeneratorConfig struct {
	APIKey     string
	APIURL     string
	Model      string
	HTTPClient *http.Client
}

// GeneratorService turns an ingredient list into recipe suggestions via
// one chat-completion call to the Groq API.
type GeneratorService struct {
	cfg    GeneratorConfig
	client *http.Client
	logger *zap.Logger
}

func NewGeneratorService(cfg GeneratorConfig, logger *zap.Logger) *GeneratorService {
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.groq.com/openai/v1/chat/completions"
	}
	if cfg.Model == "" {
		cfg.Model = "llama-3.3-70b-versatile"
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &GeneratorService{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// IngredientRef is the generator's used/missed ingredient bookkeeping.
type IngredientRef struct {
	Name string `json:"name"`
}

// GeneratedRecipe is one recipe as returned by the model. Optional
// fields pass through unvalidated; consumers must tolerate partially
// populated records.
type GeneratedRecipe struct {
	ID                    int                        `json:"id"`
	Title                 string                     `json:"title"`
	Description           string                     `json:"description"`
	Image                 string                     `json:"image"`
	ReadyInMinutes        int                        `json:"readyInMinutes"`
	Type                  string                     `json:"type"`
	Ingredients           []string                   `json:"ingredients"`
	IngredientMeasures    []models.IngredientMeasure `json:"ingredientMeasures"`
	Instructions          []string                   `json:"instructions"`
	UsedIngredientCount   int                        `json:"usedIngredientCount"`
	MissedIngredientCount int                        `json:"missedIngredientCount"`
	UsedIngredients       []IngredientRef            `json:"usedIngredients"`
	MissedIngredients     []IngredientRef            `json:"missedIngredients"`
	UnusedIngredients     []IngredientRef            `json:"unusedIngredients"`
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const promptTemplate = `Eres un chef experto. Genera exactamente 6 recetas creativas y deliciosas usando estos ingredientes: %s

Para CADA receta, responde en este EXACTO formato JSON (sin markdown, solo JSON puro):
[
  {
    "id": 1,
    "title": "Nombre de la receta en español",
    "description": "Una descripción corta (1-2 líneas) de la receta",
    "image": "https://images.pexels.com/search/chicken%%20recipe/",
    "readyInMinutes": 30,
    "type": "main course",
    "ingredients": ["2 pechugas de pollo", "1 cebolla grande", "3 tomates frescos"],
    "ingredientMeasures": [
      {"name": "pechuga de pollo", "amount": 2, "unit": "piezas"},
      {"name": "cebolla", "amount": 1, "unit": "grande"},
      {"name": "tomates frescos", "amount": 3, "unit": "piezas"}
    ],
    "instructions": ["Paso 1 detallado de la preparación", "Paso 2 detallado", "Paso 3 detallado"],
    "usedIngredientCount": 3,
    "missedIngredientCount": 0,
    "usedIngredients": [{"name": "ingrediente1"}, {"name": "ingrediente2"}],
    "missedIngredients": [],
    "unusedIngredients": []
  }
]

IMPORTANTE:
- Genera EXACTAMENTE 6 recetas diferentes
- Los títulos deben ser en ESPAÑOL
- Las descripciones deben ser cortas (1-2 líneas)
- El array "ingredients" debe contener los ingredientes con su cantidad: "2 pechugas de pollo", "1 cebolla grande", etc.
- El array "ingredientMeasures" DEBE contener objetos con: name (nombre del ingrediente), amount (cantidad numérica), unit (unidad: piezas, tazas, gramos, ml, kg, cucharadas, etc.)
- El array "instructions" debe contener 5-7 pasos detallados y específicos de preparación como strings
- Para "image", genera URLs de Pexels: https://images.pexels.com/search/[titulo]/
- readyInMinutes debe ser un número entre 15-90
- type puede ser: "main course", "side dish", "salad", "soup", "dessert", "breakfast"
- usedIngredientCount debe ser entre 2-5
- missedIngredientCount debe ser 0-2
- Responde SOLO con el JSON, sin explicaciones adicionales`

// Generate requests exactly six recipes for the given ingredients and
// parses the model's textual reply. Beyond "non-empty JSON array" the
// records are returned as-is.
func (s *GeneratorService) Generate(ctx context.Context, ingredients []string) ([]GeneratedRecipe, error) {
	if s.cfg.APIKey == "" {
		return nil, apperror.New(apperror.KindConfiguration, "Configuración del servidor incompleta")
	}

	prompt := fmt.Sprintf(promptTemplate, strings.Join(ingredients, ", "))

	reqBody := chatRequest{
		Model:       s.cfg.Model,
		Messages:    []Message{{Role: "user", Content: prompt}},
		MaxTokens:   3000,
		Temperature: 0.7,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindGeneration, "Error al generar recetas", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, apperror.Wrap(apperror.KindGeneration, "Error al generar recetas", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("provider request failed", zap.Error(err))
		return nil, apperror.Wrap(apperror.KindGeneration, "Error al generar recetas", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		s.logger.Error("provider returned error status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, apperror.Wrap(apperror.KindGeneration, "Error al generar recetas",
			fmt.Errorf("provider status %d", resp.StatusCode))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperror.Wrap(apperror.KindGeneration, "Error al generar recetas", err)
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return nil, apperror.New(apperror.KindGeneration, "Respuesta inválida de Groq")
	}

	content := result.Choices[0].Message.Content
	cleaned := strings.TrimSpace(stripCodeFences(content))

	var recipes []GeneratedRecipe
	if err := json.Unmarshal([]byte(cleaned), &recipes); err != nil {
		s.logger.Error("failed to parse provider reply", zap.Error(err))
		return nil, apperror.Wrap(apperror.KindGeneration, "Error al generar recetas", err)
	}

	if len(recipes) == 0 {
		return nil, apperror.New(apperror.KindGeneration, "No se generaron recetas válidas")
	}

	s.logger.Info("recipes generated",
		zap.Int("count", len(recipes)),
		zap.Duration("elapsed", time.Since(start)))
	return recipes, nil
}

// stripCodeFences removes markdown fences some models wrap around JSON.
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	return strings.ReplaceAll(s, "```", "")
}
