package constant

// AssetStatus mirrors the lifecycle the transcoding pipeline reports for an
// asset. A row starts as Waiting when the upload session is opened locally;
// every later value comes from the pipeline.
type AssetStatus string

const (
	AssetStatusWaiting   AssetStatus = "waiting"
	AssetStatusPreparing AssetStatus = "preparing"
	AssetStatusReady     AssetStatus = "ready"
	AssetStatusErrored   AssetStatus = "errored"
)

type TrackStatus string

const (
	TrackStatusPreparing TrackStatus = "preparing"
	TrackStatusReady     TrackStatus = "ready"
	TrackStatusErrored   TrackStatus = "errored"
)

// Acceptable returns whether the pipeline-reported track status is one the
// reconciler is willing to persist.
func (t TrackStatus) Acceptable() bool {
	return t == TrackStatusReady || t == TrackStatusPreparing
}

type TrackType string

const (
	TrackTypeAudio TrackType = "audio"
	TrackTypeVideo TrackType = "video"
	TrackTypeText  TrackType = "text"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

type ReactionType string

const (
	ReactionTypeLike    ReactionType = "like"
	ReactionTypeDislike ReactionType = "dislike"
)

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStaging    Environment = "staging"
	EnvironmentDevelop    Environment = "develop"
)

func (e Environment) String() string {
	return string(e)
}
