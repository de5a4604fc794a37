package audit

import (
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"
)

const (
	RecordMethod = "Record"
)

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(i *discordgo.InteractionCreate) error {
	args := m.Called(i)
	return args.Error(0)
}
