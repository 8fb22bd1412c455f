package api

import (
	"outlierlab/domain/calc"
	"outlierlab/domain/pass"
	"outlierlab/domain/table"
)

// Envelope is the shared response wrapper: a status discriminant plus an
// optional message. Endpoint payload fields sit alongside it.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// OK builds a success envelope.
func OK(message string) Envelope {
	return Envelope{Status: StatusSuccess, Message: message}
}

// Fail builds an error envelope.
func Fail(message string) Envelope {
	return Envelope{Status: StatusError, Message: message}
}

// Endpoint paths consumed by the client.
const (
	PathUpdateData       = "/update_data"
	PathAddRow           = "/add_row"
	PathAddColumn        = "/add_column"
	PathResetData        = "/reset_data"
	PathCalculate        = "/calculate_with_thresholds"
	PathUploadFile       = "/upload_file"
	PathDownloadCSV      = "/download_csv"
	PathDownloadCombined = "/download_combined_results"
	PathDownloadTable    = "/download_table_data"
	PathSaveDataset      = "/save_dataset"
	PathLoadDataset      = "/load_dataset"
	PathDeleteDataset    = "/delete_dataset"
	PathSavedDatasets    = "/get_saved_datasets"
	PathCompareDatasets  = "/compare_datasets"
	PathAddExperimental  = "/add_experimental_data"
	PathAddControl       = "/add_control_data"
	PathAddBothGroups    = "/add_both_groups_pass_average"
	PathAddPassAverage   = "/add_pass_average"
	PathDeletePass       = "/delete_pass_average"
	PathDeleteControl    = "/delete_control_data"
	PathTrendData        = "/get_pass_trend_data"
	PathCorrelation      = "/get_custom_data_correlation"
	PathSession          = "/session"
)

// UpdateDataRequest is the full client snapshot sent after any edit.
type UpdateDataRequest struct {
	SampleName     string         `json:"sample_name"`
	ProductionDate string         `json:"production_date"`
	PassCount      int            `json:"pass_count"`
	TableData      *table.Dataset `json:"table_data"`
}

// AddColumnRequest names the user column to create.
type AddColumnRequest struct {
	ColumnName string `json:"column_name"`
}

// CalculateRequest carries the three detection thresholds.
type CalculateRequest struct {
	Thresholds calc.Thresholds `json:"thresholds"`
}

// DatasetRequest names a saved dataset for save/load/delete.
type DatasetRequest struct {
	DatasetName string `json:"dataset_name"`
}

// CompareRequest lists the datasets to compare; the service requires at
// least two.
type CompareRequest struct {
	DatasetNames []string `json:"dataset_names"`
}

// GroupValues is one group's sub-payload inside an add-both-groups request.
// An empty struct means the group was left blank.
type GroupValues struct {
	SizeAvg       *float64    `json:"size_avg,omitempty"`
	PIAvg         *float64    `json:"pi_avg,omitempty"`
	CustomValue   *float64    `json:"custom_data_value,omitempty"`
	RemovalMethod pass.Method `json:"removal_method,omitempty"`
	ThresholdUsed string      `json:"threshold_used,omitempty"`
}

// AddBothGroupsRequest commits averages to both groups in one round trip.
type AddBothGroupsRequest struct {
	SampleName     string      `json:"sample_name"`
	CustomDataName string      `json:"custom_data_name,omitempty"`
	Experimental   GroupValues `json:"experimental"`
	Control        GroupValues `json:"control"`
}

// AddRecordRequest commits one record to a single group.
type AddRecordRequest struct {
	SampleName     string      `json:"sample_name"`
	GroupType      string      `json:"group_type,omitempty"`
	SizeAvg        float64     `json:"size_avg"`
	PIAvg          float64     `json:"pi_avg"`
	CustomValue    *float64    `json:"custom_data_value,omitempty"`
	CustomDataName string      `json:"custom_data_name,omitempty"`
	RemovalMethod  pass.Method `json:"removal_method"`
	ThresholdUsed  string      `json:"threshold_used"`
}

// DeleteRecordRequest removes one record within a group, keyed by sample
// name or, when that is blank, by pass number. The group itself is fixed by
// the endpoint; group_type travels for compatibility only.
type DeleteRecordRequest struct {
	SampleName string `json:"sample_name,omitempty"`
	PassNumber int    `json:"pass_number,omitempty"`
	GroupType  string `json:"group_type,omitempty"`
}

// TableResponse returns the authoritative canonical table copy.
type TableResponse struct {
	Envelope
	TableData *table.Dataset `json:"table_data"`
}

// ResetResponse additionally restores the metadata fields.
type ResetResponse struct {
	TableResponse
	SampleName     string `json:"sample_name"`
	ProductionDate string `json:"production_date"`
	PassCount      int    `json:"pass_count"`
}

// UploadResponse reports how spreadsheet headers were mapped onto the fixed
// columns.
type UploadResponse struct {
	TableResponse
	ColumnsMapped map[string]string `json:"columns_mapped,omitempty"`
}

// CalculationResponse is a full detection run.
type CalculationResponse struct {
	Envelope
	calc.Result
}

// GroupListResponse returns post-mutation authoritative group lists. Which
// slices are present depends on the endpoint; an emptied group still arrives
// as an empty list, never as an absent field, so full replacement can clear
// the table.
type GroupListResponse struct {
	Envelope
	PassAverages    []pass.Record `json:"pass_averages"`
	Experimental    []pass.Record `json:"experimental_data"`
	Control         []pass.Record `json:"control_data"`
	CustomFieldName string        `json:"custom_data_field_name,omitempty"`
}

// SavedDatasetInfo is one saved dataset listing entry.
type SavedDatasetInfo struct {
	Name      string `json:"name"`
	DataCount int    `json:"data_count"`
}

// SavedDatasetsResponse lists the saved datasets.
type SavedDatasetsResponse struct {
	Envelope
	Datasets []SavedDatasetInfo `json:"datasets"`
}

// LoadDatasetResponse restores a saved dataset into the session.
type LoadDatasetResponse struct {
	Envelope
	SampleName      string         `json:"sample_name"`
	ProductionDate  string         `json:"production_date"`
	PassCount       int            `json:"pass_count"`
	TableData       *table.Dataset `json:"table_data"`
	CustomFieldName string         `json:"custom_data_field_name,omitempty"`
}

// CompareResponse is a saved-dataset comparison.
type CompareResponse struct {
	Envelope
	calc.ComparisonReport
}

// TrendResponse is the pass trend analysis.
type TrendResponse struct {
	Envelope
	calc.TrendReport
}

// CorrelationResponse is the custom-field correlation analysis.
type CorrelationResponse struct {
	Envelope
	calc.CorrelationReport
}

// SessionSnapshot is the server-injected state handed to the bootstrap at
// initial load.
type SessionSnapshot struct {
	Envelope
	SampleName      string         `json:"sample_name"`
	ProductionDate  string         `json:"production_date"`
	PassCount       int            `json:"pass_count"`
	TableData       *table.Dataset `json:"table_data,omitempty"`
	PassAverages    []pass.Record  `json:"pass_averages,omitempty"`
	CustomFieldName string         `json:"custom_data_field_name,omitempty"`
}
