package dl

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Report Result 的可序列化形式，失败的区间可以用来重新下载
type Report struct {
	ID        string         `yaml:"id"`
	URL       string         `yaml:"url"`
	Path      string         `yaml:"path"`
	Size      int64          `yaml:"size"`
	Ranges    bool           `yaml:"accept_ranges"`
	Succeeded bool           `yaml:"succeeded"`
	Written   int64          `yaml:"written"`
	Elapsed   time.Duration  `yaml:"elapsed"`
	Failed    []FailedReport `yaml:"failed,omitempty"`
}

type FailedReport struct {
	Index int    `yaml:"index"`
	Range string `yaml:"range"` // a-b，闭区间
	Error string `yaml:"error"`
}

func (r *Result) Report() Report {
	rep := Report{
		ID:        r.ID,
		URL:       r.URL,
		Path:      r.Path,
		Size:      r.Resource.Size,
		Ranges:    r.Resource.AcceptRanges,
		Succeeded: r.Succeeded,
		Written:   r.Written,
		Elapsed:   r.Elapsed,
	}
	for _, f := range r.Failed {
		rep.Failed = append(rep.Failed, FailedReport{Index: f.Index, Range: f.Span().String(), Error: f.Err.Error()})
	}
	return rep
}

// WriteReport 以 yaml 格式写出下载结果
func (r *Result) WriteReport(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r.Report()); err != nil {
		return errors.Wrap(err, "写入下载报告失败")
	}
	return enc.Close()
}

func ReadReport(r io.Reader) (Report, error) {
	var rep Report
	if err := yaml.NewDecoder(r).Decode(&rep); err != nil {
		return Report{}, errors.Wrap(err, "读取下载报告失败")
	}
	return rep, nil
}
