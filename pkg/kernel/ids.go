package kernel

type CandidateID string

func NewCandidateID(id string) CandidateID { return CandidateID(id) }
func (c CandidateID) String() string       { return string(c) }
func (c CandidateID) IsEmpty() bool        { return string(c) == "" }

type ClusterID int

type ModelVersion string

func NewModelVersion(id string) ModelVersion { return ModelVersion(id) }
func (v ModelVersion) String() string        { return string(v) }
func (v ModelVersion) IsEmpty() bool         { return string(v) == "" }
