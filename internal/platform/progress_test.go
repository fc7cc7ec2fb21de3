package platform

import "testing"

func TestDownloadLineClassifier(t *testing.T) {
	classifier := DownloadLineClassifier{}

	tests := []struct {
		name    string
		line    string
		match   bool
		percent string
		speed   string
		eta     string
	}{
		{
			name:    "plain progress line",
			line:    "43.2% of 10.00MiB at 1.20MiB/s ETA 00:05",
			match:   true,
			percent: "43.2",
			speed:   "1.20MiB/s",
			eta:     "00:05",
		},
		{
			name:    "bracketed downloader line",
			line:    "[download]   3.4% of   64.00MiB at    1.23MiB/s ETA 00:50",
			match:   true,
			percent: "3.4",
			speed:   "1.23MiB/s",
			eta:     "00:50",
		},
		{
			name:  "destination line carries no progress",
			line:  "[download] Destination: Some Video [id].webm",
			match: false,
		},
		{
			name:  "completion line has no ETA",
			line:  "[download] 100% of   64.00MiB in 00:01",
			match: false,
		},
		{
			name:  "extractor chatter",
			line:  "[youtube] Extracting URL: https://www.youtube.com/watch?v=abc",
			match: false,
		},
		{
			name:  "empty line",
			line:  "",
			match: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ev, ok := classifier.Classify(test.line)
			if ok != test.match {
				t.Fatalf("Classify(%q) matched = %v, expected %v", test.line, ok, test.match)
			}
			if !ok {
				return
			}
			if ev.Percent != test.percent || ev.Speed != test.speed || ev.ETA != test.eta {
				t.Errorf("Classify(%q) = {%s %s %s}, expected {%s %s %s}",
					test.line, ev.Percent, ev.Speed, ev.ETA, test.percent, test.speed, test.eta)
			}
			if ev.IsTerminal() {
				t.Error("classified progress event must not be terminal")
			}
		})
	}
}
