package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/avis"
	"github.com/gogpu/avis/engine/spectrum"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func runRender(cmd *cobra.Command, args []string) error {
	level, err := parseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	avis.SetLogger(logger)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	width, height, err := parseSize(opts.size)
	if err != nil {
		return err
	}
	fpsNum, fpsDen, err := parseFPS(opts.fps)
	if err != nil {
		return err
	}
	format, err := avis.ParsePixelFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.output == "" && opts.encode == "" && opts.thumbDir == "" {
		return errNoSink
	}
	video := avis.VideoInfo{Width: width, Height: height, FPSNum: fpsNum, FPSDen: fpsDen, Format: format}

	audioPath := args[0]
	stream, srcFormat, err := decodeAudio(audioPath)
	if err != nil {
		return fmt.Errorf("decode %s: %w", audioPath, err)
	}
	defer stream.Close()
	total := frameCount(srcFormat.SampleRate.D(stream.Len()), fpsNum, fpsDen)
	pcm := newPCMSource(stream, srcFormat.SampleRate, opts.rate, fpsNum, fpsDen)

	var sinks []frameSink
	defer func() {
		for _, s := range sinks {
			if err := s.Close(); err != nil {
				logger.Error("closing output", "error", err)
			}
		}
	}()
	if opts.output != "" {
		raw, err := newRawSink(opts.output)
		if err != nil {
			return err
		}
		sinks = append(sinks, raw)
	}
	if opts.encode != "" {
		enc, err := newFFmpegSink(opts.encode, audioPath, video)
		if err != nil {
			return err
		}
		sinks = append(sinks, enc)
	}
	var thumbs *thumbnailer
	if opts.thumbDir != "" {
		if thumbs, err = newThumbnailer(opts.thumbDir, opts.thumbWidth, opts.thumbEvery); err != nil {
			return err
		}
	}

	out, closeDevice, err := openOutput(opts.backend, cfg, width, height, logger)
	if err != nil {
		return fmt.Errorf("backend %s: %w", opts.backend, err)
	}
	defer closeDevice()

	session, err := avis.NewSession(cfg,
		avis.WithEngine(spectrum.Factory(logger)),
		avis.WithOutput(out),
		avis.WithSessionLogger(logger),
	)
	if err != nil {
		return err
	}
	if err := session.Setup(avis.AudioInfo{Rate: opts.rate, Channels: 2}, video); err != nil {
		return err
	}
	if err := session.Start(); err != nil {
		return err
	}
	defer session.Stop()

	var bar *progressbar.ProgressBar
	if !opts.noProgress {
		bar = progressbar.Default(int64(total), "rendering")
	}
	frame := avis.NewVideoFrame(width, height, format)
	start := time.Now()
	for i := int64(0); ; i++ {
		samples, pts, ok := pcm.Next()
		if !ok {
			break
		}
		frame.PTS = time.Duration(i * int64(time.Second) * int64(fpsDen) / int64(fpsNum))
		if err := session.Render(avis.AudioBuffer{PTS: pts, Samples: samples, Channels: 2}, frame); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		for _, s := range sinks {
			if err := s.WriteFrame(frame); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
		}
		if thumbs != nil {
			if err := thumbs.Offer(frame, frame.PTS.Seconds()); err != nil {
				return fmt.Errorf("thumbnail: %w", err)
			}
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if err := pcm.Err(); err != nil {
		return fmt.Errorf("decode %s: %w", audioPath, err)
	}
	if bar != nil {
		_ = bar.Finish()
	}
	logger.Info("render finished",
		"frames", session.Frames(), "elapsed", time.Since(start).Round(time.Millisecond),
		"timeline", session.TimelineActive())
	return nil
}
