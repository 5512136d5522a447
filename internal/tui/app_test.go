package tui

import (
	"context"
	"os"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/idlab-discover/InfraClassify-cli/internal/apperr"
	"github.com/idlab-discover/InfraClassify-cli/internal/client"
	"github.com/idlab-discover/InfraClassify-cli/internal/imagefile"
	"github.com/idlab-discover/InfraClassify-cli/internal/notify"
	"github.com/idlab-discover/InfraClassify-cli/internal/upload"
)

type fakeClassifier struct {
	res   *client.Result
	err   error
	calls int
}

func (f *fakeClassifier) Classify(context.Context, *imagefile.CandidateFile) (*client.Result, error) {
	f.calls++
	return f.res, f.err
}

func sampleResult() *client.Result {
	return &client.Result{
		IsGood:                 true,
		QualityConfidence:      0.92,
		GoodInfrastructureProb: 0.88,
		BadInfrastructureProb:  0.12,
		SpecificClass:          2,
		ClassConfidence:        0.95,
		IndividualProbs:        []float64{0.04, 0.08, 0.88, 0.0},
	}
}

func fakeLoad(path string) (*imagefile.CandidateFile, error) {
	switch path {
	case "bridge.jpg":
		return &imagefile.CandidateFile{Name: "bridge.jpg", MediaType: "image/jpeg", Size: 2 << 20}, nil
	case "anim.gif":
		return &imagefile.CandidateFile{Name: "anim.gif", MediaType: "image/gif", Size: 10}, nil
	default:
		return nil, os.ErrNotExist
	}
}

func press(key string) tea.KeyPressMsg {
	switch key {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	}
	return tea.KeyPressMsg{Code: rune(key[0]), Text: key}
}

func newTestApp(t *testing.T, fc *fakeClassifier, runner upload.Runner, initial string) *appModel {
	t.Helper()
	m, err := newAppModel(context.Background(), Config{
		Client:      fc,
		InitialPath: initial,
		Load:        fakeLoad,
		Runner:      runner,
		Notes:       notify.NewService(),
	})
	if err != nil {
		t.Fatalf("newAppModel: %v", err)
	}
	t.Cleanup(m.close)
	return m
}

func syncRunner(f func()) { f() }

func TestNewAppModel_MissingClient(t *testing.T) {
	_, err := newAppModel(context.Background(), Config{})
	if !apperr.IsInitialization(err) {
		t.Fatalf("expected initialization error, got %v", err)
	}
}

func TestApp_InitialPathPreviews(t *testing.T) {
	m := newTestApp(t, &fakeClassifier{}, syncRunner, "bridge.jpg")

	if m.machine.State() != upload.Previewing {
		t.Fatalf("state = %s", m.machine.State())
	}
	if m.input.Focused() {
		t.Fatalf("input should blur once a file is previewed")
	}
	out := m.render()
	for _, want := range []string{"bridge.jpg", "image/jpeg, 2.1 MB", "Ready to classify", "c: classify", "r: remove"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestApp_SelectClassifyRemove(t *testing.T) {
	fc := &fakeClassifier{res: sampleResult()}
	m := newTestApp(t, fc, syncRunner, "")

	if !m.input.Focused() || m.machine.State() != upload.Idle {
		t.Fatalf("expected focused input in Idle")
	}
	m.input.SetValue("bridge.jpg")
	m.Update(press("enter"))
	if m.machine.State() != upload.Previewing {
		t.Fatalf("state after select = %s", m.machine.State())
	}

	m.Update(press("c"))
	if m.machine.State() != upload.Result || fc.calls != 1 {
		t.Fatalf("state = %s, calls = %d", m.machine.State(), fc.calls)
	}
	out := m.render()
	for _, want := range []string{"Good Infrastructure", "92.0%", "Good Infrastructure (Type A)"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "c: classify") {
		t.Errorf("classify must be disabled in Result:\n%s", out)
	}

	m.Update(press("r"))
	if m.machine.State() != upload.Idle || !m.input.Focused() {
		t.Fatalf("state after remove = %s (focused=%v)", m.machine.State(), m.input.Focused())
	}
}

func TestApp_FailureShowsMessage(t *testing.T) {
	fc := &fakeClassifier{err: client.ErrTimeout}
	m := newTestApp(t, fc, syncRunner, "bridge.jpg")
	m.Update(press("c"))

	if m.machine.State() != upload.Failed {
		t.Fatalf("state = %s", m.machine.State())
	}
	out := m.render()
	if !strings.Contains(out, "starting up") {
		t.Errorf("view missing timeout message:\n%s", out)
	}
}

func TestApp_RejectedSelectionNotifies(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"missing.png", "Could not read"},
		{"anim.gif", "Unsupported file type"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			m := newTestApp(t, &fakeClassifier{}, syncRunner, "")
			m.input.SetValue(tt.path)
			m.Update(press("enter"))

			if m.machine.State() != upload.Idle {
				t.Fatalf("state = %s", m.machine.State())
			}
			if out := m.render(); !strings.Contains(out, tt.want) {
				t.Errorf("view missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestApp_SubmittingDisablesControls(t *testing.T) {
	fc := &fakeClassifier{res: sampleResult()}
	var pending func()
	m := newTestApp(t, fc, func(f func()) { pending = f }, "bridge.jpg")

	m.Update(press("c"))
	if m.machine.State() != upload.Submitting {
		t.Fatalf("state = %s", m.machine.State())
	}
	out := m.render()
	if !strings.Contains(out, "Classifying") || strings.Contains(out, "r: remove") || strings.Contains(out, "c: classify") {
		t.Errorf("unexpected submitting view:\n%s", out)
	}

	m.Update(press("c"))
	m.Update(press("o"))
	m.Update(press("r"))
	if m.machine.State() != upload.Submitting || m.input.Focused() {
		t.Fatalf("actions must be refused while submitting")
	}
	if out := m.render(); !strings.Contains(out, "cannot be removed yet") {
		t.Errorf("view missing removal notice:\n%s", out)
	}

	pending()
	if m.machine.State() != upload.Result || fc.calls != 1 {
		t.Fatalf("state = %s, calls = %d", m.machine.State(), fc.calls)
	}
}

func TestApp_Quit(t *testing.T) {
	m := newTestApp(t, &fakeClassifier{}, syncRunner, "bridge.jpg")
	_, cmd := m.Update(press("q"))
	if cmd == nil || !m.quitting {
		t.Fatalf("expected quit")
	}
	if m.render() != "" {
		t.Fatalf("view must be empty after quitting")
	}
}

func TestApp_EscFromIdleQuits(t *testing.T) {
	m := newTestApp(t, &fakeClassifier{}, syncRunner, "")
	if _, cmd := m.Update(press("esc")); cmd == nil || !m.quitting {
		t.Fatalf("expected quit")
	}
}

func TestApp_LoadErrorIsLogged(t *testing.T) {
	var buf strings.Builder
	SetLogger(&buf)
	defer SetLogger(nil)

	m := newTestApp(t, &fakeClassifier{}, syncRunner, "")
	m.selectPath(" missing.png ")
	if !strings.Contains(buf.String(), "path=missing.png") || !strings.Contains(buf.String(), "load failed: "+os.ErrNotExist.Error()) {
		t.Fatalf("unexpected log %q", buf.String())
	}
}
