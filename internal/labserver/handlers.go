package labserver

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/montanaflynn/stats"

	"outlierlab/adapters/api"
	"outlierlab/domain/calc"
	"outlierlab/domain/core"
	"outlierlab/domain/pass"
	"outlierlab/domain/table"
	"outlierlab/internal"
)

// Server carries the handler dependencies: the session manager and the
// saved-dataset store.
type Server struct {
	log      *internal.Logger
	sessions *sessionManager
	store    *DatasetStore
}

// NewServer builds a server around an opened dataset store.
func NewServer(store *DatasetStore) *Server {
	return &Server{
		log:      internal.NewDefaultLogger(),
		sessions: newSessionManager(),
		store:    store,
	}
}

// Router registers every endpoint of the wire contract.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.POST(api.PathUpdateData, s.updateData)
	r.POST(api.PathAddRow, s.addRow)
	r.POST(api.PathAddColumn, s.addColumn)
	r.POST(api.PathResetData, s.resetData)
	r.POST(api.PathCalculate, s.calculate)
	r.POST(api.PathUploadFile, s.uploadFile)
	r.GET(api.PathDownloadCSV, s.downloadCSV)
	r.GET(api.PathDownloadCombined, s.downloadCombined)
	r.GET(api.PathDownloadTable, s.downloadTable)
	r.POST(api.PathSaveDataset, s.saveDataset)
	r.POST(api.PathLoadDataset, s.loadDataset)
	r.POST(api.PathDeleteDataset, s.deleteDataset)
	r.GET(api.PathSavedDatasets, s.savedDatasets)
	r.POST(api.PathCompareDatasets, s.compareDatasets)
	r.POST(api.PathAddExperimental, s.addGroupRecord(pass.GroupExperimental))
	r.POST(api.PathAddControl, s.addGroupRecord(pass.GroupControl))
	r.POST(api.PathAddBothGroups, s.addBothGroups)
	r.POST(api.PathAddPassAverage, s.addPassAverage)
	r.POST(api.PathDeletePass, s.deleteGroupRecord(pass.GroupExperimental))
	r.POST(api.PathDeleteControl, s.deleteGroupRecord(pass.GroupControl))
	r.GET(api.PathTrendData, s.trendData)
	r.GET(api.PathCorrelation, s.correlationData)
	r.GET(api.PathSession, s.sessionSnapshot)

	return r
}

// records forces an empty list over a JSON null so the client's full
// replacement clears an emptied group.
func records(list []pass.Record) []pass.Record {
	if list == nil {
		return []pass.Record{}
	}
	return list
}

func (s *Server) updateData(c *gin.Context) {
	var req api.UpdateDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortJSON(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	sess := s.sessions.acquire(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.SampleName = req.SampleName
	sess.ProductionDate = req.ProductionDate
	if req.PassCount > 0 {
		sess.PassCount = req.PassCount
	}
	if req.TableData != nil {
		sess.Table = req.TableData
	}
	s.log.Debug("[update_data] sample=%q rows=%d", sess.SampleName, sess.Table.Rows())
	c.JSON(http.StatusOK, api.OK("data updated"))
}

func (s *Server) addRow(c *gin.Context) {
	sess := s.sessions.acquire(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.Table.AddRow()
	c.JSON(http.StatusOK, api.TableResponse{
		Envelope:  api.OK("row added"),
		TableData: sess.Table,
	})
}

func (s *Server) addColumn(c *gin.Context) {
	var req api.AddColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortJSON(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	sess := s.sessions.acquire(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.Table.AddColumn(req.ColumnName); err != nil {
		abortJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	s.log.Debug("[add_column] name=%q", req.ColumnName)
	c.JSON(http.StatusOK, api.TableResponse{
		Envelope:  api.OK("column added"),
		TableData: sess.Table,
	})
}

func (s *Server) resetData(c *gin.Context) {
	sess := s.sessions.acquire(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.reset()
	s.log.Debug("[reset_data] session reset")
	c.JSON(http.StatusOK, api.ResetResponse{
		TableResponse: api.TableResponse{
			Envelope:  api.OK("data reset"),
			TableData: sess.Table,
		},
		SampleName:     sess.SampleName,
		ProductionDate: sess.ProductionDate,
		PassCount:      sess.PassCount,
	})
}

func (s *Server) calculate(c *gin.Context) {
	var req api.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortJSON(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	sess := s.sessions.acquire(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	thresholds := thresholdsOrDefault(req.Thresholds)
	detection, err := Detect(sess.Table, thresholds)
	if err != nil {
		abortJSON(c, http.StatusOK, err.Error())
		return
	}
	detection.Result.SampleName = sess.SampleName
	detection.Result.ProductionDate = sess.ProductionDate
	detection.Result.PassCount = sess.PassCount
	detection.Result.ScatterPlot = scatterSpec(detection)
	sess.LastDetection = detection

	s.log.Debug("[calculate] rows=%d zscore=%d iqr=%d mad=%d",
		detection.Result.OriginalCount,
		detection.Result.ZScore.OutliersCount,
		detection.Result.IQR.OutliersCount,
		detection.Result.MAD.OutliersCount)
	c.JSON(http.StatusOK, api.CalculationResponse{
		Envelope: api.OK("calculation complete"),
		Result:   detection.Result,
	})
}

func (s *Server) uploadFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		abortJSON(c, http.StatusBadRequest, "no file in request")
		return
	}
	file, err := header.Open()
	if err != nil {
		abortJSON(c, http.StatusBadRequest, "cannot read the uploaded file")
		return
	}
	defer file.Close()

	dataset, mapped, err := parseSpreadsheet(file)
	if err != nil {
		abortJSON(c, http.StatusOK, err.Error())
		return
	}

	sess := s.sessions.acquire(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.Table = dataset

	s.log.Info("[upload_file] name=%q rows=%d", header.Filename, dataset.Rows())
	c.JSON(http.StatusOK, api.UploadResponse{
		TableResponse: api.TableResponse{
			Envelope:  api.OK("file uploaded"),
			TableData: dataset,
		},
		ColumnsMapped: mapped,
	})
}

func writeCSV(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (s *Server) downloadCSV(c *gin.Context) {
	sess := s.sessions.acquire(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.LastDetection == nil {
		abortJSON(c, http.StatusOK, "no results to download; run a calculation first")
		return
	}
	writeCSV(c, csvFilename("outlier_results", sess.SampleName),
		resultCSV(sess.LastDetection, sess.SampleName))
}

func (s *Server) downloadCombined(c *gin.Context) {
	sess := s.sessions.acquire(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.LastDetection == nil {
		abortJSON(c, http.StatusOK, "no results to download; run a calculation first")
		return
	}
	writeCSV(c, csvFilename("combined_results", sess.SampleName),
		combinedCSV(sess.LastDetection, sess.SampleName))
}

func (s *Server) downloadTable(c *gin.Context) {
	sess := s.sessions.acquire(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	dataOnly := c.Query("data_only") == "true"
	writeCSV(c, csvFilename("table_data", sess.SampleName), tableCSV(sess, dataOnly))
}

func (s *Server) saveDataset(c *gin.Context) {
	var req api.DatasetRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.DatasetName) == "" {
		abortJSON(c, http.StatusBadRequest, "dataset name is required")
		return
	}
	sess := s.sessions.acquire(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	err := s.store.Save(SavedDataset{
		Name:            strings.TrimSpace(req.DatasetName),
		SampleName:      sess.SampleName,
		ProductionDate:  sess.ProductionDate,
		PassCount:       sess.PassCount,
		CustomFieldName: sess.CustomFieldName,
		Table:           sess.Table,
	})
	if err != nil {
		s.log.Error("[save_dataset] %v", err)
		abortJSON(c, http.StatusInternalServerError, "failed to save the dataset")
		return
	}
	c.JSON(http.StatusOK, api.OK("dataset saved"))
}

func (s *Server) loadDataset(c *gin.Context) {
	var req api.DatasetRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.DatasetName) == "" {
		abortJSON(c, http.StatusBadRequest, "dataset name is required")
		return
	}
	saved, err := s.store.Load(strings.TrimSpace(req.DatasetName))
	if errors.Is(err, ErrDatasetNotFound) {
		abortJSON(c, http.StatusOK, "dataset not found")
		return
	}
	if err != nil {
		s.log.Error("[load_dataset] %v", err)
		abortJSON(c, http.StatusInternalServerError, "failed to load the dataset")
		return
	}

	sess := s.sessions.acquire(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.SampleName = saved.SampleName
	sess.ProductionDate = saved.ProductionDate
	sess.PassCount = saved.PassCount
	sess.CustomFieldName = saved.CustomFieldName
	sess.Table = saved.Table
	sess.LastDetection = nil

	c.JSON(http.StatusOK, api.LoadDatasetResponse{
		Envelope:        api.OK("dataset loaded"),
		SampleName:      saved.SampleName,
		ProductionDate:  saved.ProductionDate,
		PassCount:       saved.PassCount,
		TableData:       saved.Table,
		CustomFieldName: saved.CustomFieldName,
	})
}

func (s *Server) deleteDataset(c *gin.Context) {
	var req api.DatasetRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.DatasetName) == "" {
		abortJSON(c, http.StatusBadRequest, "dataset name is required")
		return
	}
	err := s.store.Delete(strings.TrimSpace(req.DatasetName))
	if errors.Is(err, ErrDatasetNotFound) {
		abortJSON(c, http.StatusOK, "dataset not found")
		return
	}
	if err != nil {
		s.log.Error("[delete_dataset] %v", err)
		abortJSON(c, http.StatusInternalServerError, "failed to delete the dataset")
		return
	}
	c.JSON(http.StatusOK, api.OK("dataset deleted"))
}

func (s *Server) savedDatasets(c *gin.Context) {
	listings, err := s.store.List()
	if err != nil {
		s.log.Error("[get_saved_datasets] %v", err)
		abortJSON(c, http.StatusInternalServerError, "failed to list the saved datasets")
		return
	}
	infos := make([]api.SavedDatasetInfo, len(listings))
	for i, l := range listings {
		infos[i] = api.SavedDatasetInfo{Name: l.Name, DataCount: l.DataCount}
	}
	c.JSON(http.StatusOK, api.SavedDatasetsResponse{
		Envelope: api.OK(""),
		Datasets: infos,
	})
}

func (s *Server) compareDatasets(c *gin.Context) {
	var req api.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortJSON(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	if len(req.DatasetNames) < 2 {
		abortJSON(c, http.StatusOK, "select at least two datasets to compare")
		return
	}

	summary := make(map[string]calc.DatasetStats, len(req.DatasetNames))
	for _, name := range req.DatasetNames {
		saved, err := s.store.Load(name)
		if errors.Is(err, ErrDatasetNotFound) {
			abortJSON(c, http.StatusOK, "dataset not found: "+name)
			return
		}
		if err != nil {
			s.log.Error("[compare_datasets] %v", err)
			abortJSON(c, http.StatusInternalServerError, "failed to compare the datasets")
			return
		}
		summary[name] = datasetStats(saved.Table)
	}

	c.JSON(http.StatusOK, api.CompareResponse{
		Envelope: api.OK(""),
		ComparisonReport: calc.ComparisonReport{
			StatsSummary:   summary,
			ComparisonPlot: comparisonSpec(req.DatasetNames, summary),
		},
	})
}

// buildRecord validates an incoming record payload and stamps it.
func buildRecord(req api.AddRecordRequest, group pass.GroupType) (pass.Record, error) {
	record := pass.Record{
		SampleName:    strings.TrimSpace(req.SampleName),
		GroupType:     group,
		SizeAvg:       req.SizeAvg,
		PIAvg:         req.PIAvg,
		CustomValue:   req.CustomValue,
		RemovalMethod: req.RemovalMethod,
		ThresholdUsed: req.ThresholdUsed,
		Timestamp:     core.Now(),
	}
	if record.RemovalMethod == "" {
		record.RemovalMethod = pass.MethodManual
	}
	if record.ThresholdUsed == "" {
		record.ThresholdUsed = pass.ThresholdNA
	}
	return record, record.Validate()
}

func (s *Server) addGroupRecord(group pass.GroupType) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req api.AddRecordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortJSON(c, http.StatusBadRequest, "invalid request payload")
			return
		}
		record, err := buildRecord(req, group)
		if err != nil {
			abortJSON(c, http.StatusBadRequest, err.Error())
			return
		}

		sess := s.sessions.acquire(c)
		sess.mu.Lock()
		defer sess.mu.Unlock()

		list := sess.group(group)
		if _, exists := findRecord(*list, record.SampleName); exists {
			abortJSON(c, http.StatusOK, "sample name already exists in the "+strings.ToLower(group.Label())+" group")
			return
		}
		record.PassNumber = len(*list) + 1
		*list = append(*list, record)
		if name := strings.TrimSpace(req.CustomDataName); name != "" {
			sess.CustomFieldName = name
		}

		resp := api.GroupListResponse{
			Envelope:        api.OK(group.Label() + " record added"),
			CustomFieldName: sess.CustomFieldName,
		}
		if group == pass.GroupControl {
			resp.Control = records(sess.Control)
		} else {
			resp.Experimental = records(sess.Experimental)
		}
		c.JSON(http.StatusOK, resp)
	}
}

func (s *Server) addBothGroups(c *gin.Context) {
	var req api.AddBothGroupsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortJSON(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	sampleName := strings.TrimSpace(req.SampleName)
	if sampleName == "" {
		abortJSON(c, http.StatusBadRequest, "sample name is required")
		return
	}
	expComplete := req.Experimental.SizeAvg != nil && req.Experimental.PIAvg != nil
	ctrlComplete := req.Control.SizeAvg != nil && req.Control.PIAvg != nil
	if !expComplete && !ctrlComplete {
		abortJSON(c, http.StatusBadRequest, "at least one group needs both averages")
		return
	}

	sess := s.sessions.acquire(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	// Both halves are checked before either commits so a rejection never
	// leaves a partial write behind the error envelope.
	if expComplete {
		if _, exists := findRecord(sess.Experimental, sampleName); exists {
			abortJSON(c, http.StatusOK, "sample name already exists in the experimental group")
			return
		}
	}
	if ctrlComplete {
		if _, exists := findRecord(sess.Control, sampleName); exists {
			abortJSON(c, http.StatusOK, "sample name already exists in the control group")
			return
		}
	}

	commit := func(group pass.GroupType, values api.GroupValues) {
		list := sess.group(group)
		record := pass.Record{
			SampleName:    sampleName,
			PassNumber:    len(*list) + 1,
			GroupType:     group,
			SizeAvg:       *values.SizeAvg,
			PIAvg:         *values.PIAvg,
			CustomValue:   values.CustomValue,
			RemovalMethod: values.RemovalMethod,
			ThresholdUsed: values.ThresholdUsed,
			Timestamp:     core.Now(),
		}
		if record.RemovalMethod == "" {
			record.RemovalMethod = pass.MethodManual
		}
		if record.ThresholdUsed == "" {
			record.ThresholdUsed = pass.ThresholdNA
		}
		*list = append(*list, record)
	}

	if expComplete {
		commit(pass.GroupExperimental, req.Experimental)
	}
	if ctrlComplete {
		commit(pass.GroupControl, req.Control)
	}
	if name := strings.TrimSpace(req.CustomDataName); name != "" {
		sess.CustomFieldName = name
	}

	s.log.Debug("[add_both_groups] sample=%q exp=%t ctrl=%t", sampleName, expComplete, ctrlComplete)
	c.JSON(http.StatusOK, api.GroupListResponse{
		Envelope:        api.OK("pass averages added"),
		Experimental:    records(sess.Experimental),
		Control:         records(sess.Control),
		CustomFieldName: sess.CustomFieldName,
	})
}

func (s *Server) addPassAverage(c *gin.Context) {
	var req api.AddRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortJSON(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	record, err := buildRecord(req, pass.GroupExperimental)
	if err != nil {
		abortJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	sess := s.sessions.acquire(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if _, exists := findRecord(sess.Experimental, record.SampleName); exists {
		abortJSON(c, http.StatusOK, "sample name already exists in the experimental group")
		return
	}
	record.PassNumber = len(sess.Experimental) + 1
	sess.Experimental = append(sess.Experimental, record)

	c.JSON(http.StatusOK, api.GroupListResponse{
		Envelope:        api.OK("pass average added"),
		PassAverages:    records(sess.allRecords()),
		CustomFieldName: sess.CustomFieldName,
	})
}

func (s *Server) deleteGroupRecord(group pass.GroupType) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req api.DeleteRecordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortJSON(c, http.StatusBadRequest, "invalid request payload")
			return
		}

		sess := s.sessions.acquire(c)
		sess.mu.Lock()
		defer sess.mu.Unlock()

		list := sess.group(group)
		var idx int
		var exists bool
		if name := strings.TrimSpace(req.SampleName); name != "" {
			idx, exists = findRecord(*list, name)
		} else {
			idx, exists = findRecordByPass(*list, req.PassNumber)
		}
		if !exists {
			abortJSON(c, http.StatusOK, "record not found")
			return
		}
		*list = append((*list)[:idx], (*list)[idx+1:]...)

		c.JSON(http.StatusOK, api.GroupListResponse{
			Envelope:        api.OK("record deleted"),
			PassAverages:    records(sess.allRecords()),
			CustomFieldName: sess.CustomFieldName,
		})
	}
}

func (s *Server) trendData(c *gin.Context) {
	sess := s.sessions.acquire(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	report, err := trendReport(sess.Experimental, sess.Control)
	if err != nil {
		abortJSON(c, http.StatusOK, err.Error())
		return
	}
	c.JSON(http.StatusOK, api.TrendResponse{
		Envelope:    api.OK(""),
		TrendReport: *report,
	})
}

func (s *Server) correlationData(c *gin.Context) {
	sess := s.sessions.acquire(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	report, err := correlationReport(sess.CustomFieldName, sess.Experimental, sess.Control)
	if err != nil {
		abortJSON(c, http.StatusOK, err.Error())
		return
	}
	c.JSON(http.StatusOK, api.CorrelationResponse{
		Envelope:          api.OK(""),
		CorrelationReport: *report,
	})
}

func (s *Server) sessionSnapshot(c *gin.Context) {
	sess := s.sessions.acquire(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	c.JSON(http.StatusOK, api.SessionSnapshot{
		Envelope:        api.OK(""),
		SampleName:      sess.SampleName,
		ProductionDate:  sess.ProductionDate,
		PassCount:       sess.PassCount,
		TableData:       sess.Table,
		PassAverages:    sess.allRecords(),
		CustomFieldName: sess.CustomFieldName,
	})
}

// findRecord locates a record by sample name.
func findRecord(list []pass.Record, sampleName string) (int, bool) {
	for i, r := range list {
		if r.SampleName == sampleName {
			return i, true
		}
	}
	return -1, false
}

// findRecordByPass locates a record by pass number; zero never matches.
func findRecordByPass(list []pass.Record, passNumber int) (int, bool) {
	if passNumber <= 0 {
		return -1, false
	}
	for i, r := range list {
		if r.PassNumber == passNumber {
			return i, true
		}
	}
	return -1, false
}

// datasetStats summarizes one dataset's valid measurement rows.
func datasetStats(d *table.Dataset) calc.DatasetStats {
	sizes, pis := d.ValidPairs()
	out := calc.DatasetStats{Count: len(sizes)}
	if len(sizes) == 0 {
		return out
	}
	out.SizeMean, _ = stats.Mean(sizes)
	out.PIMean, _ = stats.Mean(pis)
	if len(sizes) >= 2 {
		out.SizeStd, _ = stats.StandardDeviationSample(sizes)
		out.PIStd, _ = stats.StandardDeviationSample(pis)
	}
	return out
}
