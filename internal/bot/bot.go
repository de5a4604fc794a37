// Package bot serves the Discord interactions endpoint: it verifies request
// signatures, answers pings, and forwards everything else to the dispatcher.
package bot

import (
	crypto "crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"slash-framework/internal/config"
	"slash-framework/internal/dispatch"
	"slash-framework/pkg/aws/sqs"
	"slash-framework/pkg/discord"
	customError "slash-framework/pkg/errors"
)

const (
	EnvPublicKey = "DISCORD_PUBLIC_KEY"
	EnvBotToken  = "DISCORD_BOT_TOKEN"
	EnvSqsUrl    = "MESSAGE_QUEUE_URL"

	loggerName = "bot"

	port        = "8080"
	BotEndpoint = "/discord"
)

// RecorderIFace appends dispatched interactions to the audit trail.
type RecorderIFace interface {
	Record(i *discordgo.InteractionCreate) error
}

type BotServer struct {
	mux    http.Handler
	logger *zap.Logger

	// Env variables
	publicKey crypto.PublicKey
	token     string
	sqsUrl    string

	dispatcher *dispatch.Dispatcher
	recorder   RecorderIFace

	discordSession discord.SessionIFace

	// AWS
	sqsClient sqs.ClientIFace
}

func New(cfg *config.Config, dispatcher *dispatch.Dispatcher, recorder RecorderIFace) *BotServer {
	botServer := &BotServer{
		logger:     cfg.Logger.Named(loggerName),
		dispatcher: dispatcher,
		recorder:   recorder,
		sqsClient:  sqs.New(),
	}

	// Configure server multiplexer
	mux := http.NewServeMux()
	mux.HandleFunc(BotEndpoint, botServer.eventHandler)
	botServer.mux = mux

	return botServer
}

func (b *BotServer) Connect() error {
	// Get expected env variables
	if err := b.loadEnv(); err != nil {
		return err
	}

	// Connect AWS session
	if err := b.sqsClient.Connect(); err != nil {
		return err
	}

	// Connect to discord session
	discordSession, err := discordgo.New(fmt.Sprintf(discord.BotTokenFormat, b.token))
	b.discordSession = discordSession
	return err
}

// Session returns the connected discord session for handler wiring.
func (b *BotServer) Session() discord.SessionIFace {
	return b.discordSession
}

func (b *BotServer) Run() error {
	// All pending waiters must resolve when the server stops
	defer b.dispatcher.Close()

	// Handle interactions deferred while the service was offline
	if err := b.drainMessageQueue(); err != nil {
		return err
	}

	// Start listening for requests
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), b.mux)
	if err != nil && errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (b *BotServer) loadEnv() error {
	// Get expected env variables
	publicKey := os.Getenv(EnvPublicKey)
	b.token = os.Getenv(EnvBotToken)
	b.sqsUrl = os.Getenv(EnvSqsUrl)
	if publicKey == "" || b.token == "" || b.sqsUrl == "" {
		return customError.MissingEnvErr{EnvMap: map[string]string{
			EnvPublicKey: publicKey,
			EnvBotToken:  b.token,
			EnvSqsUrl:    b.sqsUrl,
		}}
	}

	// Decode public key
	var err error
	if b.publicKey, err = discord.DecodePublicKey(publicKey); err != nil {
		return fmt.Errorf("invalid public key")
	}

	return nil
}

func (b *BotServer) drainMessageQueue() error {
	for {
		// Check for any queued interactions
		msg, err := b.sqsClient.Receive(b.sqsUrl)
		if err != nil {
			return err
		} else if msg == nil {
			return nil
		}

		// Parse interaction from message
		var req *discordgo.Interaction
		if err := json.Unmarshal([]byte(*msg.Body), &req); err != nil {
			return err
		}

		// Forward to request handler; the lambda already sent the deferred
		// response, the handler edits it
		if _, err := b.reqHandler(req); err != nil {
			b.logger.Error("failed to handle queued interaction", zap.Error(err))
		}

		if err := b.sqsClient.Delete(b.sqsUrl, msg.ReceiptHandle); err != nil {
			return err
		}
	}
}

func (b *BotServer) eventHandler(w http.ResponseWriter, r *http.Request) {
	// Parse request and verify signature
	req, verified, err := parseAndVerifyRequest(r, b.publicKey)
	if err != nil {
		b.logger.Error("received bad request", zap.Error(err))
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	} else if !verified {
		b.logger.Error("received unauthorized request")
		http.Error(w, "Invalid request signature", http.StatusUnauthorized)
		return
	}

	// Forward to request handler
	rsp, err := b.reqHandler(req)
	if err != nil {
		b.logger.Error("failed to handle request", zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Write response
	writeResponse(rsp, w)
}

func (b *BotServer) reqHandler(req *discordgo.Interaction) (*discordgo.InteractionResponse, error) {
	if req.Type == discordgo.InteractionPing {
		return &discord.PingResponse, nil
	}

	event := &discordgo.InteractionCreate{Interaction: req}
	if b.recorder != nil {
		if err := b.recorder.Record(event); err != nil {
			b.logger.Warn("could not record interaction", zap.Error(err))
		}
	}

	switch req.Type {
	case discordgo.InteractionApplicationCommand:
		if !b.dispatcher.Dispatch(event) {
			return nil, fmt.Errorf("unsupported command: [%s]", req.ApplicationCommandData().Name)
		}
		// Handler runs async and edits this deferred response
		return &discord.DeferredResponse, nil

	case discordgo.InteractionMessageComponent, discordgo.InteractionModalSubmit:
		if !b.dispatcher.Dispatch(event) {
			return nil, errors.New("no handler waiting on component interaction")
		}
		// The waiting handler owns the visible response
		return &discord.DeferredUpdateResponse, nil
	}

	return nil, errors.New("unsupported interaction type")
}

func parseAndVerifyRequest(r *http.Request, publicKey crypto.PublicKey) (req *discordgo.Interaction, verified bool, err error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return req, verified, err
	}

	timestamp := r.Header.Get(discord.TimestampHeader)
	signature := r.Header.Get(discord.SignatureHeader)
	if verified = discord.Authenticate(body, timestamp, signature, publicKey); !verified {
		return req, verified, nil
	}

	err = json.Unmarshal(body, &req)
	return req, verified, err
}

func writeResponse(rsp *discordgo.InteractionResponse, w http.ResponseWriter) {
	jsonRsp, err := json.Marshal(rsp)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	_, err = w.Write(jsonRsp)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
