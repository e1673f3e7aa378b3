package store

import "github.com/JonMunkholm/vidsheet/internal/ingest"

// recordColumns are the run_records value columns in ingest field order.
var recordColumns = []string{
	"publish_date",
	"video_title",
	"channel_name",
	"channel_avatar",
	"video_description",
	"views",
	"likes",
	"comments",
	"video_url",
	"thumbnail",
	"duration",
	"duration_sec",
	"view_rank",
	"days_since_published",
	"views_per_day",
	"trending_rank",
	"rank_momentum",
	"creative_advice",
	"last_data_update",
}

// recordValues flattens rec in recordColumns order.
func recordValues(rec *ingest.VideoRecord) []any {
	specs := ingest.Fields()
	values := make([]any, len(specs))
	for i, spec := range specs {
		if spec.Kind == ingest.KindNumber {
			values[i] = rec.Number(spec.Field)
		} else {
			values[i] = rec.Text(spec.Field)
		}
	}
	return values
}

// recordDest returns scan destinations for rec in recordColumns order.
func recordDest(rec *ingest.VideoRecord) []any {
	return []any{
		&rec.PublishDate,
		&rec.VideoTitle,
		&rec.ChannelName,
		&rec.ChannelAvatar,
		&rec.VideoDescription,
		&rec.Views,
		&rec.Likes,
		&rec.Comments,
		&rec.VideoURL,
		&rec.Thumbnail,
		&rec.Duration,
		&rec.DurationSec,
		&rec.ViewRank,
		&rec.DaysSincePublished,
		&rec.ViewsPerDay,
		&rec.TrendingRank,
		&rec.RankMomentum,
		&rec.CreativeAdvice,
		&rec.LastDataUpdate,
	}
}
