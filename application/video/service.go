package video

import (
	"context"

	"video-cutter/domain/video"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CutInput represents the input for a cut operation
type CutInput struct {
	InputPath  string
	Start      string
	End        string
	OutputPath string // empty selects the derived "<stem>_<start>s_<end>s<ext>" path
}

// CutResult contains the result of a cut operation
type CutResult struct {
	OutputPath string
	JobID      string
	Start      float64
	End        float64
}

// CutService coordinates video cut operations
type CutService struct {
	locator     video.ToolLocator
	trimmer     video.Trimmer
	fileChecker video.FileChecker
	logger      *zap.Logger
	newJobID    func() string
}

// CutServiceOption is a functional option for configuring CutService
type CutServiceOption func(*CutService)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) CutServiceOption {
	return func(s *CutService) {
		s.logger = logger
	}
}

// WithJobIDs sets the job id generator (for testing)
func WithJobIDs(fn func() string) CutServiceOption {
	return func(s *CutService) {
		s.newJobID = fn
	}
}

// NewCutService creates a new CutService
func NewCutService(locator video.ToolLocator, trimmer video.Trimmer, fileChecker video.FileChecker, opts ...CutServiceOption) *CutService {
	s := &CutService{
		locator:     locator,
		trimmer:     trimmer,
		fileChecker: fileChecker,
		logger:      zap.NewNop(),
		newJobID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cut trims input.InputPath to [Start, End) with ffmpeg.
// The encoder is located before any parsing so a missing tool is reported first.
func (s *CutService) Cut(ctx context.Context, input CutInput) (*CutResult, error) {
	jobID := s.newJobID()
	log := s.logger.With(zap.String("job_id", jobID))

	toolPath, err := s.locator.Locate(video.ToolFFmpeg)
	if err != nil {
		log.Debug("ffmpeg not found", zap.Error(err))
		return nil, err
	}

	req, err := video.NewTrimRequest(input.InputPath, input.Start, input.End, input.OutputPath)
	if err != nil {
		log.Debug("rejected cut request", zap.Error(err))
		return nil, err
	}

	if !s.fileChecker.IsRegularFile(req.InputPath) {
		return nil, &video.ValidationError{
			Field:   "input",
			Message: "input file does not exist: " + req.InputPath,
		}
	}

	log.Info("cutting clip",
		zap.String("input", req.InputPath),
		zap.String("start", req.StartTimestamp()),
		zap.String("end", req.EndTimestamp()),
		zap.String("output", req.OutputPath),
		zap.String("ffmpeg", toolPath),
	)

	if err := s.trimmer.Trim(ctx, toolPath, req); err != nil {
		log.Warn("cut failed", zap.Error(err))
		return nil, err
	}

	log.Info("clip written", zap.String("output", req.OutputPath))

	return &CutResult{
		OutputPath: req.OutputPath,
		JobID:      jobID,
		Start:      req.Start,
		End:        req.End,
	}, nil
}
