package demo

import (
	"time"

	"github.com/bloeys/nbatch/buffers"
	"github.com/bloeys/nbatch/logging"
	"github.com/bloeys/nbatch/renderer"
	"github.com/schollz/progressbar/v3"
)

// HeadlessReport sums up a headless run
type HeadlessReport struct {
	Frames    int
	Commands  int
	Models    int
	DrawCalls int
	Indices   int
	// Uploads is the number of buffer uploads the device received, including scene setup
	Uploads    int
	PoolSize   int
	CommitTime time.Duration
}

// AvgModels is the average number of models emitted per frame
func (r *HeadlessReport) AvgModels() float64 {
	if r.Frames == 0 {
		return 0
	}
	return float64(r.Models) / float64(r.Frames)
}

// RunHeadless draws cfg.Frames frames on an in-memory device. With showProgress a progress bar
// is printed instead of per frame logs.
func RunHeadless(cfg Config, src ShaderSources, showProgress bool) HeadlessReport {

	device := buffers.NewMemDevice()
	rend := renderer.NewCountingRender()
	sc := NewScene(cfg, device, src)

	var pb *progressbar.ProgressBar
	if showProgress {
		pb = progressbar.Default(int64(cfg.Frames), "frames")
		defer pb.Close()
	}

	report := HeadlessReport{Frames: cfg.Frames}
	for i := 0; i < cfg.Frames; i++ {

		sc.Update(1.0 / 60)

		start := time.Now()
		st := sc.Commit()
		report.CommitTime += time.Since(start)

		sc.Draw(rend)
		rend.FrameEnd()

		report.Commands += st.Commands
		report.Models += st.Models
		report.DrawCalls += rend.LastFrame.DrawCalls
		report.Indices += rend.LastFrame.Indices

		if pb != nil {
			pb.Add(1)
			continue
		}

		logging.InfoLog.Printf(
			"Frame %d: commands=%d; models=%d; buffers uploaded=%d; draw calls=%d; indices=%d; effect switches=%d\n",
			i, st.Commands, st.Models, st.BuffersUploaded, rend.LastFrame.DrawCalls, rend.LastFrame.Indices, rend.LastFrame.EffectSwitches,
		)
	}

	report.Uploads = device.Uploads
	report.PoolSize = sc.Batcher.ModelPool().Cap()
	return report
}
