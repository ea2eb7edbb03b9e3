// Package chunk implements the container framework used to walk a PSF file.
//
// A PSF file is a tree of chunks. Every chunk starts with an int32 tag; what
// follows depends on the tag and on where the chunk appears. Containers hold
// children and come in three shapes:
//
//   - simple: tag, absolute end offset, children until the end offset or an
//     end marker (header and sweep sections)
//   - sub-container: like simple, but the tag is not checked
//   - indexed: tag 21, end offset, a sub-container with the children, then an
//     index chunk; children can be looked up by id or name
//
// The children a container accepts are data, not types: a Table maps each
// accepted tag to a DecodeFunc and lists the end markers. A tag that is
// neither yields an *errs.IncorrectChunkError.
//
//	table := &chunk.Table[chunk.Property]{
//	    Name: "header",
//	    Decoders: map[format.Tag]chunk.DecodeFunc[chunk.Property]{
//	        format.TagPropString: chunk.DecodeProperty,
//	    },
//	    Ends: []format.Tag{format.TagHeaderEnd},
//	}
//	props, err := chunk.DecodeSimple(cursor, format.TagSection, table)
//
// Property blocks, the runs of property chunks that trail type definitions,
// references and values, are decoded by DecodeProperties.
package chunk
