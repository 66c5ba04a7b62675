package netx

import (
	"io"
	"math"
	"sync"

	"github.com/dmitrijs2005/imgdrop/internal/client/models"
	"github.com/dmitrijs2005/imgdrop/internal/common"
)

// ProgressFunc observes upload progress. It may be called from the HTTP
// transport's goroutine.
type ProgressFunc func(models.Progress)

// progressReader counts bytes handed to the transport and reports whole
// percent changes. Calls are serialized, percent never decreases, and nothing
// is reported after stop.
type progressReader struct {
	r       io.Reader
	total   int64
	observe ProgressFunc

	mu      sync.Mutex
	sent    int64
	last    int
	stopped bool
}

func newProgressReader(r io.Reader, total int64, observe ProgressFunc) *progressReader {
	return &progressReader{r: r, total: total, observe: observe, last: -1}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.mu.Lock()
		p.sent += int64(n)
		p.emitLocked()
		p.mu.Unlock()
	}
	return n, err
}

// complete reports 100 if that was not reported yet, then stops.
func (p *progressReader) complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	if p.last < 100 && p.observe != nil {
		p.last = 100
		p.observe(models.Progress{Sent: p.sent, Total: p.total, Percent: 100})
	}
	p.stopped = true
}

func (p *progressReader) stop() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()
}

func (p *progressReader) emitLocked() {
	if p.stopped || p.observe == nil || p.total <= 0 {
		return
	}
	pct := Percent(p.sent, p.total)
	if pct <= p.last {
		return
	}
	p.last = pct
	p.observe(models.Progress{Sent: p.sent, Total: p.total, Percent: pct})
}

// Percent returns round(sent/total*100) clamped to [0, 100].
func Percent(sent, total int64) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(sent) / float64(total) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// exactReader hands out at most size bytes of r. Once they are consumed it
// checks r for one more byte: a source that grew since it was measured fails
// the read with common.ErrFileChanged instead of being silently truncated.
type exactReader struct {
	mu        sync.Mutex
	r         io.Reader
	remaining int64
	checked   bool
	grew      bool
}

func newExactReader(r io.Reader, size int64) *exactReader {
	return &exactReader{r: r, remaining: size}
}

func (e *exactReader) Read(b []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.remaining <= 0 {
		if e.checkLocked() {
			return 0, common.ErrFileChanged
		}
		return 0, io.EOF
	}

	if int64(len(b)) > e.remaining {
		b = b[:e.remaining]
	}
	n, err := e.r.Read(b)
	e.remaining -= int64(n)
	return n, err
}

// overrun reports whether the source holds more than size bytes. It only
// looks past the end once all size bytes were read.
func (e *exactReader) overrun() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.remaining > 0 {
		return false
	}
	return e.checkLocked()
}

func (e *exactReader) checkLocked() bool {
	if !e.checked {
		var one [1]byte
		n, _ := io.ReadFull(e.r, one[:])
		e.grew = n > 0
		e.checked = true
	}
	return e.grew
}
