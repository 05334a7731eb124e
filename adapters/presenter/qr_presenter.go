package presenter

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/layer-3/walletbridge/core"
	"github.com/layer-3/walletbridge/ports"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// Presented is a pairing together with its rendered QR code.
type Presented struct {
	core.Pairing
	QRCode string `json:"qr_png_base64"`
}

// QRPresenter renders pairings as QR codes. The latest pairing of each
// backend is kept for pollers such as the HTTP API; when out is set the
// code is also drawn there as text.
type QRPresenter struct {
	mu      sync.RWMutex
	current map[core.BackendID]Presented
	out     io.Writer
	log     zerolog.Logger
}

// NewQRPresenter creates a presenter. out may be nil.
func NewQRPresenter(out io.Writer, log zerolog.Logger) *QRPresenter {
	return &QRPresenter{
		current: make(map[core.BackendID]Presented),
		out:     out,
		log:     log.With().Str("component", "presenter").Logger(),
	}
}

func (p *QRPresenter) ShowPairing(ctx context.Context, pairing core.Pairing) error {
	content := pairing.DeepLink
	if content == "" {
		content = pairing.URI
	}

	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("failed to create QR code: %w", err)
	}
	png, err := qr.PNG(qrSize)
	if err != nil {
		return fmt.Errorf("failed to generate PNG: %w", err)
	}

	p.mu.Lock()
	p.current[pairing.BackendID] = Presented{Pairing: pairing, QRCode: base64.StdEncoding.EncodeToString(png)}
	p.mu.Unlock()

	if p.out != nil {
		fmt.Fprintf(p.out, "Scan with %s or open %s\n%s", pairing.BackendID, content, renderText(qr.Bitmap()))
	}
	p.log.Info().Str("backend", string(pairing.BackendID)).Time("expires_at", pairing.ExpiresAt).Msg("pairing presented")
	return nil
}

func (p *QRPresenter) ClosePairing(id core.BackendID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.current, id)
}

// Current returns the pairing awaiting approval for a backend.
func (p *QRPresenter) Current(id core.BackendID) (Presented, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.current[id]
	return v, ok
}

// renderText draws two bitmap rows per line with half-block characters.
func renderText(bitmap [][]bool) string {
	var b strings.Builder
	for y := 0; y < len(bitmap); y += 2 {
		for x := range bitmap[y] {
			top := bitmap[y][x]
			bottom := y+1 < len(bitmap) && bitmap[y+1][x]
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

var _ ports.PairingPresenter = (*QRPresenter)(nil)
