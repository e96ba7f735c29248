package gamestream

import (
	"context"
	"encoding/hex"
	"encoding/xml"
	"fmt"

	"gostream/crypto"
)

// AudioConfiguration selects the stream's channel layout.
type AudioConfiguration int

const (
	// AudioStereo is two channels, mask 0x3.
	AudioStereo AudioConfiguration = iota
	// Audio51Surround is six channels, mask 0xFC.
	Audio51Surround
)

func (a AudioConfiguration) channelCount() int {
	if a == Audio51Surround {
		return 6
	}
	return 2
}

func (a AudioConfiguration) channelMask() int {
	if a == Audio51Surround {
		return 0xFC
	}
	return 0x3
}

// SurroundInfo packs the channel mask and count into the launch request's
// single surroundAudioInfo value: (mask << 16) + count.
func (a AudioConfiguration) SurroundInfo() int {
	return a.channelMask()<<16 + a.channelCount()
}

// StreamConfig is the caller-supplied shape of one launch or resume
// request. It is consumed by StartApp and not retained.
type StreamConfig struct {
	Width  int
	Height int
	FPS    int

	AudioConfiguration AudioConfiguration

	// SOPS enables the host's stream-optimized playback, which caps the
	// frame rate at 60.
	SOPS bool

	// LocalAudio keeps audio playing on the host instead of the stream.
	LocalAudio bool

	// GamepadMask is the bitmap of connected gamepads; the host consumes
	// it both as a count and as a bitmap.
	GamepadMask int
}

// App is one remotely launchable application.
type App struct {
	ID    int
	Title string
}

// rikeyid is fixed at zero: only one remote-input key generation exists
// per session in this protocol revision.
const rikeyid = 0

// ListApps enumerates the applications the host can stream.
func (c *Client) ListApps(ctx context.Context, srv *Server) ([]App, error) {
	url := fmt.Sprintf("https://%s:%d/applist?uniqueid=%s", srv.Address, srv.HTTPSPort, c.uniqueID)
	body, err := c.get(ctx, url, c.timeouts.Medium)
	if err != nil {
		return nil, err
	}

	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}
	if err := doc.status(); err != nil {
		return nil, err
	}

	return parseAppList(body)
}

func parseAppList(data []byte) ([]App, error) {
	var doc struct {
		Apps []struct {
			ID    int    `xml:"ID"`
			Title string `xml:"AppTitle"`
		} `xml:"App"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	apps := make([]App, 0, len(doc.Apps))
	for _, entry := range doc.Apps {
		apps = append(apps, App{ID: entry.ID, Title: entry.Title})
	}
	return apps, nil
}

// BoxArt fetches an application's box art image as raw bytes.
func (c *Client) BoxArt(ctx context.Context, srv *Server, appID int) ([]byte, error) {
	url := fmt.Sprintf("https://%s:%d/appasset?uniqueid=%s&appid=%d&AssetType=2&AssetIdx=0",
		srv.Address, srv.HTTPSPort, c.uniqueID, appID)
	return c.get(ctx, url, c.timeouts.Medium)
}

// StartApp launches appID, or resumes the already-running application when
// the host reports one active. It returns the freshly generated remote-input
// encryption key the media layer needs for the stream.
func (c *Client) StartApp(ctx context.Context, srv *Server, cfg StreamConfig, appID int) ([]byte, error) {
	if cfg.Height >= 2160 && !srv.Supports4K {
		return nil, fmt.Errorf("%w: cannot stream at %dx%d", ErrNotSupported4K, cfg.Width, cfg.Height)
	}

	inputKey, err := crypto.NewSessionKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailed, err)
	}
	keyHex := hex.EncodeToString(inputKey)

	var url string
	if srv.CurrentGame == 0 {
		fps := cfg.FPS
		if cfg.SOPS && fps > 60 {
			fps = 60
		}
		url = fmt.Sprintf("https://%s:%d/launch?uniqueid=%s&appid=%d&mode=%dx%dx%d&additionalStates=1&sops=%d&rikey=%s&rikeyid=%d&localAudioPlayMode=%d&surroundAudioInfo=%d&remoteControllersBitmap=%d&gcmap=%d%s",
			srv.Address, srv.HTTPSPort, c.uniqueID, appID,
			cfg.Width, cfg.Height, fps, boolInt(cfg.SOPS), keyHex, rikeyid,
			boolInt(cfg.LocalAudio), cfg.AudioConfiguration.SurroundInfo(),
			cfg.GamepadMask, cfg.GamepadMask, c.extraLaunchQuery)
	} else {
		url = fmt.Sprintf("https://%s:%d/resume?uniqueid=%s&rikey=%s&rikeyid=%d%s",
			srv.Address, srv.HTTPSPort, c.uniqueID, keyHex, rikeyid, c.extraLaunchQuery)
	}

	doc, err := c.getDocument(ctx, url, c.timeouts.Long)
	if err != nil {
		return nil, err
	}

	gameSession, err := doc.requiredField("gamesession")
	if err != nil {
		return nil, err
	}
	if gameSession == "0" {
		return nil, fmt.Errorf("%w: host reported a zero session id", ErrFailed)
	}

	srv.CurrentGame = appID

	if sessionURL, ok := doc.field("sessionUrl0"); ok {
		srv.RTSPSessionURL = sessionURL
	} else {
		c.logger.Warn("host response carries no sessionUrl0", "host", srv.Address)
	}

	return inputKey, nil
}

// QuitApp cancels the host's active streaming session.
func (c *Client) QuitApp(ctx context.Context, srv *Server) error {
	url := fmt.Sprintf("https://%s:%d/cancel?uniqueid=%s", srv.Address, srv.HTTPSPort, c.uniqueID)
	doc, err := c.getDocument(ctx, url, c.timeouts.Medium)
	if err != nil {
		return err
	}

	result, err := doc.requiredField("cancel")
	if err != nil {
		return err
	}
	if result == "0" {
		return fmt.Errorf("%w: host refused to cancel the session", ErrFailed)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
