package ctxutil

import (
	"context"
	"testing"
)

func TestLogFields(t *testing.T) {
	if kv := LogFields(context.Background()); len(kv) != 0 {
		t.Fatalf("empty ctx: got=%v", kv)
	}

	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t1"})
	ctx = WithRequestData(ctx, &RequestData{UserID: " u1 "})
	kv := LogFields(ctx)
	want := []interface{}{"trace_id", "t1", "user_id", "u1"}
	if len(kv) != len(want) {
		t.Fatalf("fields: want=%v got=%v", want, kv)
	}
	for i := range want {
		if kv[i] != want[i] {
			t.Fatalf("fields[%d]: want=%v got=%v", i, want[i], kv[i])
		}
	}
}
