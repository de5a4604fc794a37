// Package lambda is the serverless front door for interactions: it answers
// pings, forwards traffic to the running bot host, and otherwise starts the
// host and parks the interaction on the deferred queue.
package lambda

import (
	"bytes"
	crypto "crypto/ed25519"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"slash-framework/internal/bot"
	"slash-framework/pkg/aws/instance"
	"slash-framework/pkg/aws/sqs"
	"slash-framework/pkg/discord"
	customError "slash-framework/pkg/errors"
)

const (
	EnvPublicKey  = "PUBLIC_KEY"
	EnvInstanceId = "INSTANCE_ID"
	EnvSqsUrl     = "MESSAGE_QUEUE_URL"

	loggerName = "lambda"
)

var (
	unauthorizedResponse = events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusUnauthorized,
		Body:       "Invalid request signature",
	}

	badRequestResponse = events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusBadRequest,
		Body:       "Invalid request",
	}

	internalErrorResponse = events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       "Internal server error",
	}
)

type Handler struct {
	logger *zap.Logger

	// Env variables
	publicKey  crypto.PublicKey
	instanceId string
	sqsUrl     string

	httpClient *http.Client

	// AWS
	instanceClient instance.ClientIFace
	sqsClient      sqs.ClientIFace
}

func New(logger *zap.Logger) *Handler {
	// Configure HTTP client
	httpClient := http.DefaultClient
	httpClient.Timeout = 3 * time.Second

	return &Handler{
		logger:         logger.Named(loggerName),
		httpClient:     httpClient,
		instanceClient: instance.New(),
		sqsClient:      sqs.New(),
	}
}

func (h *Handler) Handle(event events.APIGatewayV2HTTPRequest) events.APIGatewayV2HTTPResponse {
	if err := h.loadEnv(); err != nil {
		h.logger.Error("bad lambda environment", zap.Error(err))
		return internalErrorResponse
	}

	rsp := h.handle(event)

	// Set content-type header in response
	if rsp.Headers == nil {
		rsp.Headers = make(map[string]string, 1)
	}
	rsp.Headers["Content-Type"] = "application/json"

	return rsp
}

func (h *Handler) handle(event events.APIGatewayV2HTTPRequest) events.APIGatewayV2HTTPResponse {
	// Verify request signature
	eventBody := []byte(event.Body)
	timestamp := event.Headers[discord.TimestampHeader]
	signature := event.Headers[discord.SignatureHeader]
	if !discord.Authenticate(eventBody, timestamp, signature, h.publicKey) {
		return unauthorizedResponse
	}

	// Parse request from event body
	var req discordgo.Interaction
	if err := json.Unmarshal(eventBody, &req); err != nil {
		return badRequestResponse
	}

	// Acknowledge a ping
	if req.Type == discordgo.InteractionPing {
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusOK,
			Body:       string(discord.PingResponseJson),
		}
	}

	// Connect to AWS instance
	if err := h.instanceClient.Connect(); err != nil {
		h.logger.Error("could not connect instance client", zap.Error(err))
		return internalErrorResponse
	}

	// Get instance state
	state, err := h.instanceClient.GetInstanceState(h.instanceId)
	if err != nil {
		h.logger.Error("could not get instance state", zap.Error(err))
		return internalErrorResponse
	}

	switch state {
	// Forward request to the bot host when it's already running
	case instance.InstanceRunningState:
		return h.forwardToInstance(eventBody, event.Headers)

	// Send error message when the host is already starting up
	case instance.InstancePendingState:
		rsp := discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: "Bot is still starting up!",
			},
		}
		body, _ := json.Marshal(rsp)
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusOK,
			Body:       string(body),
		}

	// Start the host and defer the interaction when it's not running yet
	default:
		// Attempt to start
		if err := h.instanceClient.StartInstance(h.instanceId); err != nil {
			h.logger.Error("could not start instance", zap.Error(err))
			return internalErrorResponse
		}

		// Forward request to deferred message queue
		h.sqsClient.ConnectWithSession(h.instanceClient.GetSession())
		if err := h.sqsClient.Send(h.sqsUrl, event.Body); err != nil {
			h.logger.Error("could not queue interaction", zap.Error(err))
			return internalErrorResponse
		}

		// Return deferred response; the bot edits it once it drains the queue
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusOK,
			Body:       string(discord.DeferredResponseJson),
		}
	}
}

func (h *Handler) loadEnv() error {
	// Get expected env variables
	publicKey := os.Getenv(EnvPublicKey)
	h.instanceId = os.Getenv(EnvInstanceId)
	h.sqsUrl = os.Getenv(EnvSqsUrl)
	if publicKey == "" || h.instanceId == "" || h.sqsUrl == "" {
		return customError.MissingEnvErr{EnvMap: map[string]string{
			EnvPublicKey:  publicKey,
			EnvInstanceId: h.instanceId,
			EnvSqsUrl:     h.sqsUrl,
		}}
	}

	// Decode public key
	var err error
	if h.publicKey, err = discord.DecodePublicKey(publicKey); err != nil {
		return fmt.Errorf("invalid public key")
	}

	return nil
}

func (h *Handler) forwardToInstance(reqBody []byte, headers map[string]string) events.APIGatewayV2HTTPResponse {
	// Get endpoint
	instanceAddress, err := h.instanceClient.GetInstanceAddress(h.instanceId)
	if err != nil {
		h.logger.Error("could not get instance address", zap.Error(err))
		return internalErrorResponse
	}
	endpoint := fmt.Sprintf("http://%s%s", instanceAddress, bot.BotEndpoint)

	// Build HTTP request
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		h.logger.Error("could not build forward request", zap.Error(err))
		return internalErrorResponse
	}
	req.Header.Set(discord.SignatureHeader, headers[discord.SignatureHeader])
	req.Header.Set(discord.TimestampHeader, headers[discord.TimestampHeader])

	// Make HTTP call
	rsp, err := h.httpClient.Do(req)
	if err != nil {
		h.logger.Error("could not reach bot host", zap.Error(err))
		return internalErrorResponse
	}
	defer rsp.Body.Close()

	// Convert response body
	rspBody := new(strings.Builder)
	if _, err := io.Copy(rspBody, rsp.Body); err != nil {
		h.logger.Error("could not read bot host response", zap.Error(err))
		return internalErrorResponse
	}

	return events.APIGatewayV2HTTPResponse{
		StatusCode: rsp.StatusCode,
		Body:       rspBody.String(),
	}
}
