// Package audit spools dispatched interactions to local JSON-line files and
// periodically uploads finished day files to S3.
package audit

import (
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"slash-framework/internal/config"
	"slash-framework/pkg/aws/s3"
	customError "slash-framework/pkg/errors"
)

const (
	EnvAuditBucket = "AUDIT_LOG_BUCKET"

	loggerName = "interaction-audit"

	bucketPrefix     = "interactions"
	dateFolderFormat = "2006-01-02"
	spoolFileSuffix  = ".log"
)

var (
	Frequency = time.Hour * 24 // Default upload daily
)

type record struct {
	Time          time.Time `json:"time"`
	InteractionID string    `json:"interaction_id"`
	Type          string    `json:"type"`
	AuthorID      string    `json:"author_id,omitempty"`
	Command       string    `json:"command,omitempty"`
	CustomID      string    `json:"custom_id,omitempty"`
}

type Client struct {
	cfg    *config.Config
	logger *zap.Logger
	mu     sync.Mutex

	spoolDir string
	s3Bucket string
	s3Client s3.ClientIFace
}

func New(cfg *config.Config) *Client {
	return &Client{
		cfg:      cfg,
		logger:   cfg.Logger.Named(loggerName),
		spoolDir: cfg.GetAuditDir(),
		s3Client: s3.New(),
	}
}

// Connect loads the bucket env and connects the S3 session. Only needed for
// uploading; Record works without it.
func (c *Client) Connect() error {
	c.s3Bucket = os.Getenv(EnvAuditBucket)
	if c.s3Bucket == "" {
		return customError.MissingEnvErr{EnvMap: map[string]string{
			EnvAuditBucket: c.s3Bucket,
		}}
	}

	return c.s3Client.Connect()
}

// Record appends the interaction to today's spool file.
func (c *Client) Record(i *discordgo.InteractionCreate) error {
	rec := record{
		Time:          time.Now(),
		InteractionID: i.ID,
		Type:          i.Type.String(),
	}
	if i.Member != nil && i.Member.User != nil {
		rec.AuthorID = i.Member.User.ID
	} else if i.User != nil {
		rec.AuthorID = i.User.ID
	}
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		rec.Command = i.ApplicationCommandData().Name
	case discordgo.InteractionMessageComponent:
		rec.CustomID = i.MessageComponentData().CustomID
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.spoolDir, 0o755); err != nil {
		return err
	}

	fileName := rec.Time.Format(dateFolderFormat) + spoolFileSuffix
	f, err := os.OpenFile(filepath.Join(c.spoolDir, fileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}

// DoUpload pushes every finished day file not yet present in the bucket.
// Today's file is still being written and is skipped.
func (c *Client) DoUpload() error {
	// Get already-uploaded day folders
	folders, err := c.s3Client.GetFolders(c.s3Bucket, 2)
	if err != nil {
		return err
	}
	uploaded := make(map[string]struct{}, len(folders))
	for _, folder := range folders {
		uploaded[folder] = struct{}{}
	}

	entries, err := os.ReadDir(c.spoolDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	today := time.Now().Format(dateFolderFormat)
	var errs error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		date := dateFromSpoolFile(entry.Name())
		if date == "" || date == today {
			continue
		}
		if _, ok := uploaded[path.Join(bucketPrefix, date)]; ok {
			continue
		}

		if err := c.uploadFile(entry.Name(), date); err != nil {
			c.logger.Error("could not upload audit file", zap.Error(err), zap.String("file", entry.Name()))
			errs = multierr.Append(errs, err)
			continue
		}
		c.logger.Info("uploaded audit file", zap.String("file", entry.Name()))
	}
	return errs
}

// Schedule uploads at the configured frequency until done closes.
func (c *Client) Schedule(done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(Frequency)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := c.DoUpload(); err != nil {
					c.logger.Error("audit upload failed", zap.Error(err))
				}
			}
		}
	}()
}

func (c *Client) uploadFile(fileName, date string) error {
	f, err := os.Open(filepath.Join(c.spoolDir, fileName))
	if err != nil {
		return err
	}
	defer f.Close()

	return c.s3Client.Put(f, c.s3Bucket, path.Join(bucketPrefix, date, fileName))
}

func dateFromSpoolFile(fileName string) string {
	date := strings.TrimSuffix(fileName, spoolFileSuffix)
	if date == fileName {
		return ""
	}
	if _, err := time.Parse(dateFolderFormat, date); err != nil {
		return ""
	}
	return date
}
