package main

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/discochess/picklejar"
	"github.com/discochess/picklejar/internal/objstore"
	"github.com/discochess/picklejar/internal/objstore/gcsstore"
	"github.com/discochess/picklejar/internal/objstore/s3store"
	"github.com/discochess/picklejar/internal/pickler"
)

// openStore connects to the bucket named by u. Tests replace it.
var openStore = func(ctx context.Context, u objstore.URL) (objstore.Store, error) {
	switch u.Scheme {
	case objstore.SchemeGCS:
		s, err := gcsstore.New(ctx, u.Bucket)
		if err != nil {
			return nil, err
		}
		return s, nil
	case objstore.SchemeS3:
		var opts []s3store.Option
		if cfg.S3.Region != "" {
			opts = append(opts, s3store.WithRegion(cfg.S3.Region))
		}
		if cfg.S3.Endpoint != "" {
			opts = append(opts, s3store.WithEndpoint(cfg.S3.Endpoint))
		}
		s, err := s3store.New(ctx, u.Bucket, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
}

// source is an input ready for Load.
type source struct {
	target picklejar.Target
	// opts carries the compression for remote objects, which are streams
	// and have no extension to infer from.
	opts []picklejar.CallOption
}

// openSource prepares arg for reading. Remote objects are fetched into
// memory so archive formats get the random access they need.
func openSource(ctx context.Context, arg, compression string) (src source, err error) {
	if !objstore.IsRemote(arg) {
		return source{
			target: picklejar.Path(arg),
			opts:   []picklejar.CallOption{picklejar.WithCompression(compression)},
		}, nil
	}

	u, err := objstore.ParseURL(arg)
	if err != nil {
		return source{}, err
	}
	name, err := remoteCompression(u, compression)
	if err != nil {
		return source{}, err
	}

	st, err := openStore(ctx, u)
	if err != nil {
		return source{}, fmt.Errorf("connecting to %s: %w", u.Bucket, err)
	}
	defer func() { err = multierr.Append(err, st.Close()) }()

	rc, err := st.Open(ctx, u.Key)
	if err != nil {
		return source{}, fmt.Errorf("opening %s: %w", u, err)
	}
	defer func() { err = multierr.Append(err, rc.Close()) }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return source{}, fmt.Errorf("reading %s: %w", u, err)
	}
	logger.Debug("fetched remote object",
		zap.Stringer("url", u),
		zap.Int("bytes", len(data)),
		zap.String("compression", name),
	)

	return source{
		target: picklejar.Stream(bytes.NewReader(data)),
		opts:   []picklejar.CallOption{picklejar.WithCompression(name)},
	}, nil
}

// writeDest dumps body, which must be an io.Reader or []byte, through the
// raw pickler to arg. It returns where the data ended up.
func writeDest(ctx context.Context, arg, compression string, body any) (string, error) {
	raw := picklejar.WithPickler(pickler.Raw)

	if !objstore.IsRemote(arg) {
		opts := callOpts(raw, picklejar.WithCompression(compression))
		f, err := jar.Resolve(picklejar.Path(arg), opts...)
		if err != nil {
			return "", err
		}
		if err := jar.Dump(body, picklejar.Path(arg), opts...); err != nil {
			return "", err
		}
		return f.Path, nil
	}

	u, err := objstore.ParseURL(arg)
	if err != nil {
		return "", err
	}
	name, err := remoteCompression(u, compression)
	if err != nil {
		return "", err
	}

	// Encode fully before touching the bucket so a failed dump uploads nothing.
	var buf bytes.Buffer
	if err := jar.Dump(body, picklejar.Stream(&buf), callOpts(raw, picklejar.WithCompression(name))...); err != nil {
		return "", err
	}
	if err := upload(ctx, u, &buf); err != nil {
		return "", err
	}
	return u.String(), nil
}

func upload(ctx context.Context, u objstore.URL, r io.Reader) (err error) {
	st, err := openStore(ctx, u)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", u.Bucket, err)
	}
	defer func() { err = multierr.Append(err, st.Close()) }()

	w, err := st.Create(ctx, u.Key)
	if err != nil {
		return fmt.Errorf("creating %s: %w", u, err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return multierr.Append(fmt.Errorf("writing %s: %w", u, err), w.Close())
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("committing %s: %w", u, err)
	}
	return nil
}

// remoteCompression resolves "infer" against the object key.
func remoteCompression(u objstore.URL, compression string) (string, error) {
	if compression != picklejar.CompressionInfer {
		return compression, nil
	}
	f, err := jar.Resolve(picklejar.Path(u.Key), picklejar.WithCompression(picklejar.CompressionInfer))
	if err != nil {
		return "", err
	}
	return f.Compression, nil
}
