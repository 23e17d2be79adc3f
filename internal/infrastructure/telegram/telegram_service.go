// Package telegram envía las alertas de stock a un chat de Telegram vía Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jhoicas/productos-api/internal/application/ports"
	"github.com/jhoicas/productos-api/pkg/config"
	"github.com/jhoicas/productos-api/pkg/logger"
)

// Verificar en tiempo de compilación que Service implementa Notifier.
var _ ports.Notifier = (*Service)(nil)

// Service adaptador del puerto Notifier sobre la Bot API (sendMessage).
// Si faltan token o chat_id cada envío devuelve error en lugar de panic.
type Service struct {
	cfg        config.TelegramConfig
	httpClient *http.Client
	log        *logger.Logger
}

// NewService construye el adaptador con el timeout de la configuración.
func NewService(cfg config.TelegramConfig, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.Named("telegram"),
	}
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// Send publica text en el chat configurado. Una respuesta con ok=false es un fallo.
func (s *Service) Send(ctx context.Context, text string) error {
	if !s.cfg.Enabled() {
		return fmt.Errorf("telegram: TELEGRAM_BOT_TOKEN o TELEGRAM_CHAT_ID no configurado")
	}

	body, err := json.Marshal(sendMessageRequest{ChatID: s.cfg.ChatID, Text: text})
	if err != nil {
		return fmt.Errorf("telegram: serializar request: %w", err)
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", s.cfg.APIURL, s.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("telegram: timeout o cancelación: %w", ctx.Err())
		}
		// El error de net/http incluye la URL con el token; no se propaga.
		return fmt.Errorf("telegram: llamada HTTP fallida")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16*1024))
	if err != nil {
		return fmt.Errorf("telegram: leer respuesta: %w", err)
	}

	var out apiResponse
	if jsonErr := json.Unmarshal(raw, &out); jsonErr != nil {
		return fmt.Errorf("telegram: HTTP %d: respuesta no válida", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK || !out.OK {
		s.log.Warn().Int("status", resp.StatusCode).Int("error_code", out.ErrorCode).Msg("telegram rechazó el mensaje")
		return fmt.Errorf("telegram: HTTP %d: %s", resp.StatusCode, out.Description)
	}
	s.log.Debug().Str("chat_id", s.cfg.ChatID).Msg("mensaje enviado")
	return nil
}
