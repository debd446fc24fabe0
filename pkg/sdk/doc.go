// Package minwon provides an embedded Go client for the minwon civil
// complaint service backed by Redis with search modules and an
// OpenAI-compatible AI provider.
//
// The client wires the service's storage and AI layers directly, without
// going through the HTTP API:
//
//	client, _ := minwon.New(ctx,
//	    minwon.WithRedis("localhost:6379", ""),
//	    minwon.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	)
//	defer client.Close()
//
//	c, _ := client.Complaints().Submit(ctx,
//	    "초과근무수당 미지급 문의",
//	    "지난달 초과근무수당이 지급되지 않았습니다.",
//	    "성과∙급여",
//	)
//	resp, _ := client.Search().Similar(ctx, "수당이 안 나왔어요")
package minwon
