package bot

import (
	"bytes"
	crypto "crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	awssqs "github.com/aws/aws-sdk-go/service/sqs"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"slash-framework/internal/audit"
	"slash-framework/internal/config"
	"slash-framework/internal/dispatch"
	"slash-framework/internal/slash"
	"slash-framework/pkg/aws/sqs"
	"slash-framework/pkg/discord"
)

const testCommand = "announce"

func commandInteraction() *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:   "interaction-id",
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{
			Name: testCommand,
		},
	}
}

func componentInteraction(customId string) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:   "interaction-id",
		Type: discordgo.InteractionMessageComponent,
		Data: discordgo.MessageComponentInteractionData{
			CustomID: customId,
		},
	}
}

func newTestBotServer(t *testing.T) (*BotServer, *dispatch.Dispatcher) {
	t.Helper()
	cfg, err := config.NewTestConfig()
	require.NoError(t, err)

	d := dispatch.New(cfg, new(discord.MockDiscordSession))
	return New(cfg, d, nil), d
}

func Test_New(t *testing.T) {
	cfg, err := config.NewTestConfig()
	require.NoError(t, err)

	b := New(cfg, dispatch.New(cfg, new(discord.MockDiscordSession)), new(audit.MockRecorder))

	require.NotNil(t, b)
	assert.NotNil(t, b.sqsClient)
	assert.NotNil(t, b.dispatcher)
	assert.NotNil(t, b.recorder)
	assert.NotNil(t, b.mux)
}

func Test_BotServer_Connect(t *testing.T) {
	pubKey, _, err := crypto.GenerateKey(nil)
	require.NoError(t, err)
	pubKeyString := hex.EncodeToString(pubKey)
	botToken := "bottoken"
	sqsUrl := "sqsurl"

	mockErr := errors.New("mock error")
	tests := []struct {
		name       string
		expErr     string
		pubKey     string
		noEnv      bool
		connectErr error
	}{
		{
			name:   "Happy path",
			pubKey: pubKeyString,
		},
		{
			name:   "Sad path - Missing env variables",
			expErr: "insufficient env variables",
			noEnv:  true,
		},
		{
			name:   "Sad path - Bad public key",
			pubKey: "!@#$%^&*()",
			expErr: "invalid public key",
		},
		{
			name:       "Sad path - AWS connect error",
			pubKey:     pubKeyString,
			expErr:     mockErr.Error(),
			connectErr: mockErr,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Set required env variables
			if !tt.noEnv {
				t.Setenv(EnvPublicKey, tt.pubKey)
				t.Setenv(EnvBotToken, botToken)
				t.Setenv(EnvSqsUrl, sqsUrl)
			}

			// Setup mock SQS client
			mockSqsClient := new(sqs.MockClient)
			mockSqsClient.On(sqs.ConnectMethod).Return(tt.connectErr)

			b, _ := newTestBotServer(t)
			b.sqsClient = mockSqsClient

			err := b.Connect()

			if tt.expErr == "" {
				require.NoError(t, err)
				assert.NotNil(t, b.discordSession)
				assert.NotNil(t, b.Session())
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expErr)
			}
		})
	}
}

func Test_BotServer_reqHandler(t *testing.T) {
	tests := []struct {
		name       string
		req        *discordgo.Interaction
		withWaiter bool
		expRsp     *discordgo.InteractionResponse
		expErr     string
	}{
		{
			name:   "Happy path - Ping",
			req:    &discordgo.Interaction{Type: discordgo.InteractionPing},
			expRsp: &discord.PingResponse,
		},
		{
			name:   "Happy path - Command defers and dispatches",
			req:    commandInteraction(),
			expRsp: &discord.DeferredResponse,
		},
		{
			name:       "Happy path - Component consumed by waiter",
			req:        componentInteraction("confirm"),
			withWaiter: true,
			expRsp:     &discord.DeferredUpdateResponse,
		},
		{
			name:   "Sad path - Component without waiter",
			req:    componentInteraction("confirm"),
			expErr: "no handler waiting",
		},
		{
			name: "Sad path - Unknown command",
			req: &discordgo.Interaction{
				Type: discordgo.InteractionApplicationCommand,
				Data: discordgo.ApplicationCommandInteractionData{Name: "unknown"},
			},
			expErr: "unsupported command",
		},
		{
			name:   "Sad path - Unsupported interaction type",
			req:    &discordgo.Interaction{Type: discordgo.InteractionApplicationCommandAutocomplete},
			expErr: "unsupported interaction type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, d := newTestBotServer(t)

			handlerRan := make(chan struct{}, 1)
			d.Handle(testCommand, func(ctx *slash.Context) error {
				handlerRan <- struct{}{}
				return nil
			})
			if tt.withWaiter {
				_, err := d.Waiters().Register(func(*discordgo.InteractionCreate) bool { return true })
				require.NoError(t, err)
			}

			// Record every non-ping interaction
			mockRecorder := new(audit.MockRecorder)
			mockRecorder.On(audit.RecordMethod, mock.Anything).Return(nil)
			b.recorder = mockRecorder

			rsp, err := b.reqHandler(tt.req)

			if tt.expErr == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.expRsp, rsp)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expErr)
			}

			if tt.req.Type == discordgo.InteractionPing {
				mockRecorder.AssertNotCalled(t, audit.RecordMethod, mock.Anything)
			} else {
				mockRecorder.AssertCalled(t, audit.RecordMethod, mock.Anything)
			}

			if tt.req.Type == discordgo.InteractionApplicationCommand && tt.expErr == "" {
				select {
				case <-handlerRan:
				case <-time.After(time.Second):
					require.Fail(t, "command handler was not invoked")
				}
			}
		})
	}
}

func Test_BotServer_eventHandler(t *testing.T) {
	pubKey, privateKey, err := crypto.GenerateKey(nil)
	require.NoError(t, err)
	timestamp := time.Now().String()

	pingBody, err := json.Marshal(discordgo.Interaction{Type: discordgo.InteractionPing})
	require.NoError(t, err)

	tests := []struct {
		name          string
		body          string
		badSignature  bool
		expStatusCode int
	}{
		{
			name:          "Happy path - Ping",
			body:          string(pingBody),
			expStatusCode: http.StatusOK,
		},
		{
			name:          "Sad path - Bad signature",
			body:          string(pingBody),
			badSignature:  true,
			expStatusCode: http.StatusUnauthorized,
		},
		{
			name:          "Sad path - Unparseable body",
			body:          "not json",
			expStatusCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newTestBotServer(t)
			b.publicKey = crypto.PublicKey(pubKey)

			signed := timestamp + tt.body
			signature := hex.EncodeToString(crypto.Sign(privateKey, []byte(signed)))
			if tt.badSignature {
				signature = hex.EncodeToString([]byte("badsignature"))
			}

			req := httptest.NewRequest(http.MethodPost, BotEndpoint, bytes.NewReader([]byte(tt.body)))
			req.Header.Set(discord.TimestampHeader, timestamp)
			req.Header.Set(discord.SignatureHeader, signature)
			w := httptest.NewRecorder()

			b.eventHandler(w, req)

			require.Equal(t, tt.expStatusCode, w.Code)
			if tt.expStatusCode == http.StatusOK {
				var rsp discordgo.InteractionResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsp))
				assert.Equal(t, discord.PingResponse, rsp)
			}
		})
	}
}

func Test_BotServer_drainMessageQueue(t *testing.T) {
	sqsUrl := "sqsurl"

	reqBody, err := json.Marshal(commandInteraction())
	require.NoError(t, err)
	queuedMsg := &awssqs.Message{
		Body:          aws.String(string(reqBody)),
		ReceiptHandle: aws.String("receipt-handle"),
	}

	b, d := newTestBotServer(t)
	b.sqsUrl = sqsUrl

	handlerRan := make(chan struct{}, 1)
	d.Handle(testCommand, func(ctx *slash.Context) error {
		handlerRan <- struct{}{}
		return nil
	})

	// Queue holds one deferred interaction
	mockSqsClient := new(sqs.MockClient)
	mockSqsClient.On(sqs.ReceiveMethod, sqsUrl).Return(queuedMsg, nil).Once()
	mockSqsClient.On(sqs.ReceiveMethod, sqsUrl).Return(nil, nil)
	mockSqsClient.On(sqs.DeleteMethod, sqsUrl, queuedMsg.ReceiptHandle).Return(nil)
	b.sqsClient = mockSqsClient

	require.NoError(t, b.drainMessageQueue())

	select {
	case <-handlerRan:
	case <-time.After(time.Second):
		require.Fail(t, "queued command handler was not invoked")
	}
	mockSqsClient.AssertCalled(t, sqs.DeleteMethod, sqsUrl, queuedMsg.ReceiptHandle)
}
