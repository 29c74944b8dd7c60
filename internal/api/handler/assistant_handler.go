package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pulselink/pulselink-api/internal/core/domain"
	"github.com/pulselink/pulselink-api/internal/core/ports"
)

// MaxAudioBytes caps transcription uploads at the provider's file limit.
const MaxAudioBytes = 25 << 20

const (
	providerErrorPrefix = "AI provider error: "
	internalErrorReply  = "An unexpected error occurred."
)

// AssistantHandler exposes chat and transcription.
type AssistantHandler struct {
	assistant ports.AssistantService
}

func NewAssistantHandler(assistant ports.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

type chatMessageRequest struct {
	Role    string `json:"role"    validate:"required,oneof=system user assistant"`
	Content string `json:"content" validate:"required"`
}

// chatRequest carries the full dialogue history, or a single user turn in
// Text. When both are present Text is appended as the newest turn.
type chatRequest struct {
	Messages []chatMessageRequest `json:"messages" validate:"omitempty,dive"`
	Text     string               `json:"text"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Chat answers a conversation. Provider failures are rendered into the
// response text; only an unavailable provider fails the request.
//
// @Summary      Chat with the assistant
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      chatRequest  true  "Conversation history"
// @Success      200   {object}  chatResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Failure      429   {object}  ErrorResponse
// @Failure      503   {object}  ErrorResponse
// @Router       /chat [post]
func (h *AssistantHandler) Chat(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	history := toHistory(req)
	if len(history) == 0 {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "messages or text is required")
	}

	reply, err := h.assistant.Chat(c.Request().Context(), user.Email, history)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, chatResponse{Response: renderReply(reply)})
}

// Transcribe converts an uploaded audio file to text.
//
// @Summary      Transcribe audio
// @Tags         audio
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        audio_file  formData  file  true  "Audio file"
// @Success      200   {object}  transcriptionResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      413   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Failure      503   {object}  ErrorResponse
// @Router       /audio/transcribe [post]
func (h *AssistantHandler) Transcribe(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("audio_file")
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "audio_file is required")
	}
	if fh.Size > MaxAudioBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "audio file exceeds 25 MiB")
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxAudioBytes+1))
	if err != nil {
		return err
	}
	if len(data) > MaxAudioBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "audio file exceeds 25 MiB")
	}

	text, err := h.assistant.Transcribe(c.Request().Context(), user.Email, domain.AudioClip{
		Data:        data,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "audio file is empty")
		}
		return err
	}
	return c.JSON(http.StatusOK, transcriptionResponse{Text: text})
}

func toHistory(req chatRequest) []domain.Message {
	history := make([]domain.Message, 0, len(req.Messages)+1)
	for _, m := range req.Messages {
		history = append(history, domain.Message{Role: domain.Role(m.Role), Content: m.Content})
	}
	if req.Text != "" {
		history = append(history, domain.Message{Role: domain.RoleUser, Content: req.Text})
	}
	return history
}

// renderReply turns a chat outcome into the text shown to the end user.
func renderReply(r domain.ChatReply) string {
	switch r.Kind {
	case domain.ReplyOK:
		return r.Text
	case domain.ReplyProviderError:
		return providerErrorPrefix + r.Detail
	default:
		return internalErrorReply
	}
}
