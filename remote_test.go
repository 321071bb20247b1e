package somfy

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
)

type fakeTransmitter struct {
	mu   sync.Mutex
	sent []Sequence
	err  error
}

func (tx *fakeTransmitter) Transmit(seq Sequence) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.err != nil {
		return tx.err
	}
	tx.sent = append(tx.sent, seq)
	return nil
}

func TestRemoteSend(t *testing.T) {
	tx := &fakeTransmitter{}
	r := NewRemote(tx, DefaultRepeats)
	b := &Blind{Name: "Kitchen", Address: 0x100002, RollingCode: 0xFFFE}
	for _, want := range []uint16{0xFFFF, 1, 2} {
		if err := r.Send(b, Up); err != nil {
			t.Fatal(err)
		}
		if b.RollingCode != want {
			t.Errorf("rolling code == %04X, want %04X", b.RollingCode, want)
		}
	}
	if len(tx.sent) != 3 {
		t.Fatalf("transmitted %d sequences, want 3", len(tx.sent))
	}
	want, err := BuildTransmission(Up, 0xFFFE, 0x100002, DefaultRepeats)
	if err != nil {
		t.Fatal(err)
	}
	got := tx.sent[0]
	if got.Len() != want.Len() {
		t.Fatalf("transmitted %d pulses, want %d", got.Len(), want.Len())
	}
	for i := 0; i < got.Len(); i++ {
		if got.At(i) != want.At(i) {
			t.Errorf("pulse %d == %v, want %v", i, got.At(i), want.At(i))
		}
	}
}

func TestRemoteSendFailure(t *testing.T) {
	errRadio := errors.New("radio unavailable")
	tx := &fakeTransmitter{err: errRadio}
	r := NewRemote(tx, DefaultRepeats)
	b := &Blind{Name: "Office", Address: 0x100003, RollingCode: 17}
	if err := r.Send(b, Down); !errors.Is(err, errRadio) {
		t.Errorf("Send error == %v, want %v", err, errRadio)
	}
	if b.RollingCode != 17 {
		t.Errorf("rolling code advanced to %d after failed transmission", b.RollingCode)
	}
}

func TestRemoteSendInvalid(t *testing.T) {
	tx := &fakeTransmitter{}
	b := &Blind{Name: "Hall", Address: 0x100004, RollingCode: 5}
	if err := NewRemote(tx, 0).Send(b, Up); !errors.Is(err, ErrInvalidRepeatCount) {
		t.Errorf("Send error == %v, want %v", err, ErrInvalidRepeatCount)
	}
	if err := NewRemote(tx, 1).Send(b, Command(0x3)); !errors.Is(err, ErrInvalidCommand) {
		t.Errorf("Send error == %v, want %v", err, ErrInvalidCommand)
	}
	if len(tx.sent) != 0 || b.RollingCode != 5 {
		t.Errorf("invalid sends transmitted %d sequences, rolling code %d", len(tx.sent), b.RollingCode)
	}
}

func TestRemoteSendZeroRollingCode(t *testing.T) {
	tx := &fakeTransmitter{}
	b := &Blind{Name: "Attic", Address: 0x100006, RollingCode: 0}
	if err := NewRemote(tx, DefaultRepeats).Send(b, Up); !errors.Is(err, ErrZeroRollingCode) {
		t.Errorf("Send error == %v, want %v", err, ErrZeroRollingCode)
	}
	if len(tx.sent) != 0 {
		t.Errorf("transmitted %d sequences with rolling code 0", len(tx.sent))
	}
	if b.RollingCode != 0 {
		t.Errorf("rolling code changed to %d after rejected send", b.RollingCode)
	}
}

func TestRemoteSetVerboseDuringSend(t *testing.T) {
	tx := &fakeTransmitter{}
	r := NewRemote(tx, 1)
	b := &Blind{Name: "Study", Address: 0x100007, RollingCode: InitialRollingCode}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			r.SetVerbose(i%2 == 0)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			if err := r.Send(b, Stop); err != nil {
				t.Error(err)
			}
		}
	}()
	wg.Wait()
	if b.RollingCode != InitialRollingCode+10 {
		t.Errorf("rolling code == %d after 10 sends, want %d", b.RollingCode, InitialRollingCode+10)
	}
}

func TestRemoteConcurrentSend(t *testing.T) {
	tx := &fakeTransmitter{}
	r := NewRemote(tx, 1)
	b := &Blind{Name: "Porch", Address: 0x100005, RollingCode: InitialRollingCode}
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.Send(b, Stop); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if b.RollingCode != InitialRollingCode+20 {
		t.Errorf("rolling code == %d after 20 sends, want %d", b.RollingCode, InitialRollingCode+20)
	}
	if len(tx.sent) != 20 {
		t.Errorf("transmitted %d sequences, want 20", len(tx.sent))
	}
}
