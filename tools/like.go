package tools

import (
	"context"

	"github.com/richinex/tubegate/auth"
)

// LikeVideoTool rates a video "like". It only reports success after the
// platform accepted the rating.
type LikeVideoTool struct {
	upstream Upstream
}

// NewLikeVideoTool creates a like tool.
func NewLikeVideoTool(upstream Upstream) *LikeVideoTool {
	return &LikeVideoTool{upstream: upstream}
}

// Metadata returns the tool metadata.
func (t *LikeVideoTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "likeVideo",
		Description: "Like a video on behalf of the signed-in user",
		Parameters: []ToolParameter{
			{Name: "videoId", ParamType: "string", Description: "Video to like", Required: true},
		},
		Aliases: []string{"youtube.likeVideo"},
	}
}

// Validate validates the arguments.
func (t *LikeVideoTool) Validate(in Input) error {
	_, err := in.RequireString("videoId")
	return err
}

// Execute submits the rating.
func (t *LikeVideoTool) Execute(ctx context.Context, ac auth.Context, in Input) (any, error) {
	token, err := ac.Require()
	if err != nil {
		return nil, err
	}
	id, _ := in.String("videoId")
	if err := t.upstream.LikeVideo(ctx, token, id); err != nil {
		return nil, err
	}
	return LikeResult{Success: true, VideoID: id}, nil
}

var _ Tool = (*LikeVideoTool)(nil)
