package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fileboard/internal/common"
	"github.com/dmitrijs2005/fileboard/internal/server/models"
)

// CommandSender delivers a command to a device.
type CommandSender interface {
	Send(ctx context.Context, cmd models.Command) error
}

type CommandService struct {
	sender  CommandSender
	presets []models.CommandPreset
}

func NewCommandService(sender CommandSender, presets []models.CommandPreset) *CommandService {
	return &CommandService{sender: sender, presets: presets}
}

func (s *CommandService) Presets() []models.CommandPreset {
	out := make([]models.CommandPreset, len(s.presets))
	copy(out, s.presets)
	return out
}

// Send pushes a command to the device registered under identifier.
func (s *CommandService) Send(ctx context.Context, id, title, body string) error {
	if err := validateIdentifier(id); err != nil {
		return err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("%w: command title is empty", common.ErrorValidation)
	}
	return s.sender.Send(ctx, models.Command{Title: title, Body: body, Target: id})
}
