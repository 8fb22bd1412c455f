package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"outlierlab/domain/core"
	"outlierlab/domain/table"
	"outlierlab/ports"
)

func TestPostDecodesEnvelopePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s", ct)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","table_data":{"No.":[1,2],"Size(nm)":[10,null],"PI":[0.1,0.2]}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	var resp TableResponse
	if err := client.Post(context.Background(), PathAddRow, nil, &resp); err != nil {
		t.Fatalf("post: %v", err)
	}
	if resp.TableData == nil || resp.TableData.Rows() != 2 {
		t.Fatalf("table data = %+v", resp.TableData)
	}
	if got := resp.TableData.Value(table.ColumnSize, 0); got != core.Number(10) {
		t.Errorf("cell = %v, want 10", got)
	}
}

func TestErrorEnvelopeBecomesRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"error","message":"sample name already exists"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Post(context.Background(), PathAddPassAverage, AddRecordRequest{SampleName: "x"}, nil)

	var remote *ports.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("error = %v, want RemoteError", err)
	}
	if remote.Message != "sample name already exists" {
		t.Errorf("message = %q", remote.Message)
	}
}

func TestTransportFailureIsNotRemoteError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1") // nothing listens here
	err := client.Get(context.Background(), PathTrendData, nil)
	if err == nil {
		t.Fatal("expected transport error")
	}
	var remote *ports.RemoteError
	if errors.As(err, &remote) {
		t.Errorf("transport failure classified as remote rejection: %v", err)
	}
}

func TestUploadSendsMultipartFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			w.Write([]byte(`{"status":"error","message":"no file"}`))
			return
		}
		defer file.Close()
		if header.Filename != "measurements.xlsx" {
			t.Errorf("filename = %s", header.Filename)
		}
		w.Write([]byte(`{"status":"success","table_data":{"No.":[1],"Size(nm)":[5],"PI":[0.1]},"columns_mapped":{"Size(nm)":"size"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	var resp UploadResponse
	err := client.Upload(context.Background(), PathUploadFile, "file", "measurements.xlsx",
		strings.NewReader("not a real sheet"), &resp)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if resp.ColumnsMapped["Size(nm)"] != "size" {
		t.Errorf("columns mapped = %v", resp.ColumnsMapped)
	}
}

func TestDownloadParsesDispositionFilename(t *testing.T) {
	const name = "결과_outlier.csv"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(name))
		w.Write([]byte("a,b\n1,2\n"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	download, err := client.Download(context.Background(), PathDownloadCSV)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if download.Filename != name {
		t.Errorf("filename = %q, want %q", download.Filename, name)
	}
	if string(download.Data) != "a,b\n1,2\n" {
		t.Errorf("data = %q", download.Data)
	}
}

func TestDownloadRejectionSurfacesEnvelopeMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"error","message":"no results to download"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Download(context.Background(), PathDownloadCSV)
	var remote *ports.RemoteError
	if !errors.As(err, &remote) || remote.Message != "no results to download" {
		t.Fatalf("error = %v, want the envelope message", err)
	}
}

func TestSessionCookiePersistsAcrossCalls(t *testing.T) {
	var sawCookie bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("session_id"); err == nil {
			sawCookie = true
		} else {
			http.SetCookie(w, &http.Cookie{Name: "session_id", Value: "abc"})
		}
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()
	if err := client.Post(ctx, PathAddRow, nil, nil); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if err := client.Post(ctx, PathAddRow, nil, nil); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !sawCookie {
		t.Error("session cookie did not persist across calls")
	}
}
