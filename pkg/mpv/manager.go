package mpv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"time"
)

const (
	mpvName           = "mpv"
	idleArg           = "--idle"
	noVideoArg        = "--no-video"
	inputIpcServerArg = "--input-ipc-server"

	managerLogPrefix = "mpv.Manager#"
)

type ManagerConfig struct {
	MpvSocketPath           string
	ErrWriter               io.Writer
	OutWriter               io.Writer
	SocketConnectionTimeout time.Duration
	StartMpvInstance        bool
}

// Manager handles dispatching of commands, while exposing mpv command API as a facade.
type Manager struct {
	cd               *commandDispatcher
	errLog           *log.Logger
	mpvCmd           *exec.Cmd
	outLog           *log.Logger
	socketPath       string
	startMpvInstance bool
}

// NewManager instantiates a command dispatcher, preparing new Manager for use.
func NewManager(cfg ManagerConfig) *Manager {
	errLog := log.New(cfg.ErrWriter, managerLogPrefix, log.LstdFlags)
	outLog := log.New(cfg.OutWriter, managerLogPrefix, log.LstdFlags)

	cdCfg := commandDispatcherConfig{
		connectionTimeout: cfg.SocketConnectionTimeout,
		errWriter:         errLog.Writer(),
		socketPath:        cfg.MpvSocketPath,
		outWriter:         outLog.Writer(),
	}

	return &Manager{
		cd:               newCommandDispatcher(cdCfg),
		errLog:           errLog,
		outLog:           outLog,
		socketPath:       cfg.MpvSocketPath,
		startMpvInstance: cfg.StartMpvInstance,
	}
}

// ChangePause instructs mpv to change the pause state.
// Paused argument specifies whether playback should be paused or unpaused.
func (m *Manager) ChangePause(paused bool) error {
	_, err := m.SetProperty(PauseProperty, paused)

	return err
}

// Close cleans up manager's resources.
func (m *Manager) Close() {
	m.cd.Close()
}

// LoadTrack instructs mpv to replace current playback with the stream under the provided url.
func (m *Manager) LoadTrack(url string) error {
	cmd := command{
		name:     loadfileCommand,
		elements: []interface{}{url, ReplaceValue},
	}
	_, err := m.cd.Request(cmd)

	return err
}

// Seek moves current playback position by offsetSecs (negative values rewind).
// The seek is exact instead of keyframe-bound; audio streams have sparse keyframes.
func (m *Manager) Seek(offsetSecs float64) error {
	cmd := command{
		name:     seekCommand,
		elements: []interface{}{offsetSecs, fmt.Sprintf("%s+%s", RelativeValue, ExactValue)},
	}
	_, err := m.cd.Request(cmd)

	return err
}

// SeekTo moves current playback to the position positionSecs from the start.
// The seek is exact instead of keyframe-bound; audio streams have sparse keyframes.
func (m *Manager) SeekTo(positionSecs float64) error {
	cmd := command{
		name:     seekCommand,
		elements: []interface{}{positionSecs, fmt.Sprintf("%s+%s", AbsoluteValue, ExactValue)},
	}
	_, err := m.cd.Request(cmd)

	return err
}

// Serve starts handling requests to and responses from mpv.
// If necessary, Serve also spawns and handles mpv process lifetime.
func (m *Manager) Serve() error {
	mpvErrors := make(chan error)
	cdErrors := make(chan error)

	if m.startMpvInstance {
		go func() {
			err := m.manageOwnMpvProcess()
			if err != nil {
				mpvErrors <- err
			}

			close(mpvErrors)
		}()
	}

	go func() {
		err := m.serveCommandDispatcher()
		if err != nil {
			cdErrors <- err
		}

		close(cdErrors)
	}()

	select {
	case err := <-mpvErrors:
		return err
	case err := <-cdErrors:
		return err
	}
}

// SetProperty sets the value of a property.
// Value is of any type since various mpv commands expect different types of values.
func (m *Manager) SetProperty(property string, value interface{}) (Response, error) {
	cmd := command{
		name:     setPropertyCommand,
		elements: []interface{}{property, value},
	}

	return m.cd.Request(cmd)
}

// SetVolume changes the output volume. Volume is expected in the 0-100 range.
func (m *Manager) SetVolume(volume int) error {
	_, err := m.SetProperty(VolumeProperty, volume)

	return err
}

// Stop instructs mpv to stop the playback without quitting.
func (m *Manager) Stop() error {
	cmd := command{
		name:     stopCommand,
		elements: []interface{}{},
	}
	_, err := m.cd.Request(cmd)

	return err
}

// SubscribeToProperty instructs mpv to listen on property changes and send those changes on the out channel.
func (m *Manager) SubscribeToProperty(propertyName string, out chan<- ObservePropertyResponse) (int, error) {
	return m.cd.SubscribeToProperty(propertyName, out)
}

func (m *Manager) startMpv() error {
	cmd := exec.Command(mpvName, idleArg, noVideoArg, fmt.Sprintf("%s=%s", inputIpcServerArg, m.socketPath))
	err := cmd.Start()
	if err != nil {
		return fmt.Errorf("could not start mpv process: %w", err)
	}

	m.mpvCmd = cmd
	return nil
}

func (m *Manager) manageOwnMpvProcess() error {
	var err error
	for {
		if m.mpvCmd != nil {
			m.outLog.Println("watching for mpv process exit...")

			err = m.mpvCmd.Wait()
			if err != nil {
				return fmt.Errorf("mpv process finished with error: %w", err)
			} else {
				m.outLog.Println("mpv process finished successfully (closed by user)")
			}

			m.outLog.Println("restarting mpv process...")
		}

		err = m.startMpv()
		if err != nil {
			return fmt.Errorf("could not start mpv process due to error: %w", err)
		}
		m.outLog.Println("mpv process started")
	}
}

func (m *Manager) serveCommandDispatcher() error {
	var err error
	for {
		m.outLog.Println("connecting command dispatcher...")

		err = m.cd.Connect()
		if errors.Is(err, context.DeadlineExceeded) {
			m.errLog.Println("connection timed out, retrying...")
			continue
		} else if err != nil {
			return err
		}

		err = m.cd.Serve()
		if err != nil {
			return err
		}

		m.cd.Close()
	}
}
