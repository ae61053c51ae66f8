package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/mamadbah2/revente/internal/config"
	"github.com/mamadbah2/revente/internal/domain/models"
)

type fakeReporter struct {
	digestErr  error
	archiveErr error
	archived   int
}

func (f *fakeReporter) Digest(context.Context) (models.Statistics, string, error) {
	if f.digestErr != nil {
		return models.Statistics{}, "", f.digestErr
	}
	return models.Statistics{TotalCount: 2}, "digest", nil
}

func (f *fakeReporter) Archive(context.Context, models.Statistics) error {
	if f.archiveErr != nil {
		return f.archiveErr
	}
	f.archived++
	return nil
}

type fakeSender struct {
	to, body string
	err      error
}

func (f *fakeSender) SendText(_ context.Context, to, body string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.to, f.body = to, body
	return "wamid.1", nil
}

func testConfig() config.Config {
	cfg := config.Config{}
	cfg.Reporting.CronSchedule = "0 20 * * 5"
	cfg.Reporting.Timezone = "Europe/Paris"
	cfg.WhatsApp.Recipient = "33600000000"
	return cfg
}

func TestSendWeeklyDigest(t *testing.T) {
	reporter := &fakeReporter{}
	sender := &fakeSender{}
	s := NewScheduler(testConfig(), reporter, sender, nil)

	require.NoError(t, s.SendWeeklyDigest(context.Background()))
	assert.Equal(t, 1, reporter.archived)
	assert.Equal(t, "33600000000", sender.to)
	assert.Equal(t, "digest", sender.body)
}

func TestSendWeeklyDigestWithoutSender(t *testing.T) {
	reporter := &fakeReporter{}
	s := NewScheduler(testConfig(), reporter, nil, nil)

	require.NoError(t, s.SendWeeklyDigest(context.Background()))
	assert.Equal(t, 1, reporter.archived)
}

func TestSendWeeklyDigestCombinesFailures(t *testing.T) {
	archiveErr := errors.New("archive down")
	sendErr := errors.New("whatsapp down")
	s := NewScheduler(testConfig(), &fakeReporter{archiveErr: archiveErr}, &fakeSender{err: sendErr}, nil)

	err := s.SendWeeklyDigest(context.Background())
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.ErrorIs(t, err, archiveErr)
	assert.ErrorIs(t, err, sendErr)
}

func TestSendWeeklyDigestStopsWhenDigestFails(t *testing.T) {
	sender := &fakeSender{}
	s := NewScheduler(testConfig(), &fakeReporter{digestErr: errors.New("drive down")}, sender, nil)

	require.Error(t, s.SendWeeklyDigest(context.Background()))
	assert.Empty(t, sender.body)
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.Reporting.CronSchedule = "every friday"
	s := NewScheduler(cfg, &fakeReporter{}, nil, nil)

	require.Error(t, s.Start())
}
